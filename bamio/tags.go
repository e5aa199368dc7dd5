package bamio

import (
	"github.com/biogo/hts/sam"
)

// HasTag reports whether the record carries an aux field with the given
// two-letter tag.
func HasTag(rec *sam.Record, tag string) bool {
	_, ok := rec.Tag([]byte(tag))
	return ok
}

func setTag(rec *sam.Record, aux sam.Aux) {
	tag := aux.Tag()
	for i, field := range rec.AuxFields {
		if field.Tag() == tag {
			rec.AuxFields[i] = aux
			return
		}
	}
	rec.AuxFields = append(rec.AuxFields, aux)
}

// SetStringTag attaches or replaces a string-valued aux field.
func SetStringTag(rec *sam.Record, tag, value string) error {
	aux, err := sam.NewAux(sam.NewTag(tag), value)
	if err != nil {
		return err
	}
	setTag(rec, aux)
	return nil
}

// SetIntTag attaches or replaces an integer-valued aux field.
func SetIntTag(rec *sam.Record, tag string, value int32) error {
	aux, err := sam.NewAux(sam.NewTag(tag), int(value))
	if err != nil {
		return err
	}
	setTag(rec, aux)
	return nil
}
