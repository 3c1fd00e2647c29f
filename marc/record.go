package marc

// LeaderLength is the fixed size of a MARC leader.
const LeaderLength = 24

// Record is a single bibliographic record: a leader followed by its
// variable fields in the order they were read.
type Record struct {
	Leader string
	Fields []VariableField
}

// VariableField is either a *ControlField or a *DataField.
type VariableField interface {
	GetTag() string
}

// ControlField carries a tag in the 00X range and an unstructured value.
type ControlField struct {
	Tag   string
	Value string
}

// GetTag returns the field tag
func (f *ControlField) GetTag() string { return f.Tag }

// DataField carries two indicators and an ordered list of subfields.
// An indicator value of 0 means the indicator was never set.
type DataField struct {
	Tag       string
	Ind1      byte
	Ind2      byte
	Subfields []Subfield
}

// GetTag returns the field tag
func (f *DataField) GetTag() string { return f.Tag }

// HasIndicators reports whether both indicators are set.
func (f *DataField) HasIndicators() bool {
	return f.Ind1 != 0 && f.Ind2 != 0
}

// Subfield is a coded segment of a data field.
type Subfield struct {
	Code byte
	Data string
}

// NewControlField creates a control field.
func NewControlField(tag, value string) *ControlField {
	return &ControlField{Tag: tag, Value: value}
}

// NewDataField creates a data field with the given indicators and subfields.
func NewDataField(tag string, ind1, ind2 byte, subfields ...Subfield) *DataField {
	return &DataField{Tag: tag, Ind1: ind1, Ind2: ind2, Subfields: subfields}
}

// IsControlTag reports whether tag falls in the control field range 001-009.
func IsControlTag(tag string) bool {
	return len(tag) == 3 && tag[0] == '0' && tag[1] == '0' && tag[2] >= '1' && tag[2] <= '9'
}

// ControlFields returns the record's control fields in order.
func (r *Record) ControlFields() []*ControlField {
	var out []*ControlField
	for _, f := range r.Fields {
		if cf, ok := f.(*ControlField); ok {
			out = append(out, cf)
		}
	}
	return out
}

// DataFields returns the record's data fields in order.
func (r *Record) DataFields() []*DataField {
	var out []*DataField
	for _, f := range r.Fields {
		if df, ok := f.(*DataField); ok {
			out = append(out, df)
		}
	}
	return out
}

// Field returns the first field with the given tag, or nil.
func (r *Record) Field(tag string) VariableField {
	for _, f := range r.Fields {
		if f.GetTag() == tag {
			return f
		}
	}
	return nil
}
