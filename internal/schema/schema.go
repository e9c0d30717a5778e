// Package schema validates serialized snapshot documents against an
// embedded CUE schema. Import uses it to reject malformed or
// structurally wrong input before anything touches the store.
package schema

import (
	_ "embed"
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cuejson "cuelang.org/go/encoding/json"
)

//go:embed snapshot.cue
var snapshotCUE string

var (
	compileOnce sync.Once
	schemaValue cue.Value
	compileErr  error
)

// compiled builds the #Snapshot definition once per process.
func compiled() (cue.Value, error) {
	compileOnce.Do(func() {
		ctx := cuecontext.New()
		v := ctx.CompileString(snapshotCUE, cue.Filename("snapshot.cue"))
		if err := v.Err(); err != nil {
			compileErr = fmt.Errorf("compile snapshot schema: %w", err)
			return
		}
		schemaValue = v.LookupPath(cue.ParsePath("#Snapshot"))
		if err := schemaValue.Err(); err != nil {
			compileErr = fmt.Errorf("lookup #Snapshot: %w", err)
		}
	})
	return schemaValue, compileErr
}

// Validate checks a serialized snapshot against the schema. A nil
// return means the document has the right shape: all four collections,
// the audit trail, and per-record required fields.
func Validate(data []byte) error {
	v, err := compiled()
	if err != nil {
		return err
	}
	if err := cuejson.Validate(data, v); err != nil {
		return fmt.Errorf("snapshot does not match schema: %w", err)
	}
	return nil
}
