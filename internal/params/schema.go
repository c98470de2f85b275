package params

import (
	_ "embed"
	"fmt"
	"math"
	"strings"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"

	"github.com/roach88/tritium/internal/faults"
)

//go:embed schema.cue
var schemaSource []byte

var (
	schemaOnce sync.Once
	schemaCtx  *cue.Context
	schemaDef  cue.Value
	schemaErr  error
)

// schema compiles the embedded #Params definition once per process.
func schema() (*cue.Context, cue.Value, error) {
	schemaOnce.Do(func() {
		schemaCtx = cuecontext.New()
		v := schemaCtx.CompileBytes(schemaSource, cue.Filename("schema.cue"))
		if err := v.Err(); err != nil {
			schemaErr = fmt.Errorf("compiling parameter schema: %w", err)
			return
		}
		schemaDef = v.LookupPath(cue.ParsePath("#Params"))
		schemaErr = schemaDef.Err()
	})
	return schemaCtx, schemaDef, schemaErr
}

// Validate checks p against the parameter schema.
func (p Params) Validate() error {
	// CUE numbers have no NaN or infinity, so these never reach the schema.
	fields := p.fields()
	for _, k := range Keys() {
		if v := *fields[k]; math.IsNaN(v) || math.IsInf(v, 0) {
			return faults.Configf(k, "must be finite, got %g", v)
		}
	}
	ctx, def, err := schema()
	if err != nil {
		return err
	}
	v := def.Unify(ctx.Encode(p))
	return cueConfigError(v.Validate(cue.Concrete(true)))
}

// decodeCUE unifies a CUE parameter file with the schema. Omitted keys take
// their schema defaults.
func decodeCUE(src []byte, filename string) (Params, error) {
	ctx, def, err := schema()
	if err != nil {
		return Params{}, err
	}
	file := ctx.CompileBytes(src, cue.Filename(filename))
	if err := file.Err(); err != nil {
		return Params{}, cueConfigError(err)
	}
	v := def.Unify(file)
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return Params{}, cueConfigError(err)
	}
	var p Params
	if err := v.Decode(&p); err != nil {
		return Params{}, cueConfigError(err)
	}
	return p, nil
}

// cueConfigError converts the first CUE error into a ConfigurationError
// naming the offending field.
func cueConfigError(err error) error {
	if err == nil {
		return nil
	}
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return faults.Configf("params", "%v", err)
	}
	first := errs[0]
	field := strings.Join(first.Path(), ".")
	if field == "" {
		field = "params"
	}
	format, args := first.Msg()
	return faults.Configf(field, format, args...)
}
