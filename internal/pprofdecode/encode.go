package pprofdecode

import (
	"io"

	gpprof "github.com/google/pprof/profile"
)

// Reencode rebuilds a canonical gzip-compressed pprof wire-format byte
// stream from a decoded Profile, using github.com/google/pprof/profile's
// encoder (the same library the teacher codebase already depends on for
// pprof round-trips). The store uses this to persist a disk copy of the
// submitted profile that has round-tripped through this system's own
// decoder, rather than the verbatim submitted bytes.
func Reencode(w io.Writer, p *Profile) error {
	return toGoogleProfile(p).Write(w)
}

func toGoogleProfile(p *Profile) *gpprof.Profile {
	out := &gpprof.Profile{}

	functions := make(map[uint64]*gpprof.Function, len(p.Function))
	for _, fn := range p.Function {
		gf := &gpprof.Function{
			ID:   fn.ID,
			Name: p.StringAt(fn.NameIndex),
		}
		functions[fn.ID] = gf
		out.Function = append(out.Function, gf)
	}

	locations := make(map[uint64]*gpprof.Location, len(p.Location))
	for _, loc := range p.Location {
		gl := &gpprof.Location{ID: loc.ID}
		for _, line := range loc.Line {
			fn, ok := functions[line.FunctionID]
			if !ok {
				continue
			}
			gl.Line = append(gl.Line, gpprof.Line{Function: fn})
		}
		locations[loc.ID] = gl
		out.Location = append(out.Location, gl)
	}

	maxValues := 1
	for _, s := range p.Sample {
		if len(s.Value) > maxValues {
			maxValues = len(s.Value)
		}
	}
	for i := 0; i < maxValues; i++ {
		out.SampleType = append(out.SampleType, &gpprof.ValueType{Type: "sample", Unit: "count"})
	}

	for _, s := range p.Sample {
		gs := &gpprof.Sample{Value: append([]int64(nil), s.Value...)}
		for _, locID := range s.LocationID {
			if loc, ok := locations[locID]; ok {
				gs.Location = append(gs.Location, loc)
			}
		}
		out.Sample = append(out.Sample, gs)
	}

	return out
}
