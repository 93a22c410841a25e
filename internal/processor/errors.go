package processor

import (
	"errors"
	"fmt"
)

type Stage string

const (
	StageRead     Stage = "read"
	StageValidate Stage = "validate"
	StageExtract  Stage = "extract"
	StageParse    Stage = "parse"
	StageTimeout  Stage = "timeout"
)

// DocumentError is a failure scoped to one source document. The batch logs
// it and moves on.
type DocumentError struct {
	Filename string
	Stage    Stage
	Err      error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("%s: %s failed: %v", e.Filename, e.Stage, e.Err)
}

func (e *DocumentError) Unwrap() error {
	return e.Err
}

var ErrEmptyBatch = errors.New("batch produced no event records")

// EmptyBatchError is returned when no document in the source produced a
// record. Nothing is persisted or indexed.
type EmptyBatchError struct {
	Source string
}

func (e *EmptyBatchError) Error() string {
	return fmt.Sprintf("no event records produced from source %s", e.Source)
}

func (e *EmptyBatchError) Is(target error) bool {
	return target == ErrEmptyBatch
}
