package schema

// File is a parsed schema document.
type File struct {
	Version   string      `yaml:"version"`
	Namespace string      `yaml:"namespace,omitempty"`
	Enums     []EnumDef   `yaml:"enums,omitempty"`
	Types     []TypeDef   `yaml:"types"`
	Domains   []DomainDef `yaml:"domains,omitempty"`
}

// TypeDef declares a struct type.
type TypeDef struct {
	Name    string `yaml:"name"`
	Extends string `yaml:"extends,omitempty"`
	// Markers apply to the type itself, e.g. codec=... to model it as a scalar.
	Markers    StringOrArray `yaml:"markers,omitempty"`
	Fields     []FieldDef    `yaml:"fields"`
	Operations StringOrArray `yaml:"operations,omitempty"`
}

// FieldDef declares a data member.
type FieldDef struct {
	Name        string        `yaml:"name"`
	Type        string        `yaml:"type"`
	Alias       StringOrArray `yaml:"alias,omitempty"`
	Markers     StringOrArray `yaml:"markers,omitempty"`
	Constraints StringOrArray `yaml:"constraints,omitempty"`
	Codec       string        `yaml:"codec,omitempty"`
}

// EnumDef declares a named scalar type.
type EnumDef struct {
	Name    string        `yaml:"name"`
	Kind    string        `yaml:"kind"`
	Markers StringOrArray `yaml:"markers,omitempty"`
}

// DomainDef groups declared types under a domain identity.
type DomainDef struct {
	Domain string        `yaml:"domain"`
	Types  StringOrArray `yaml:"types"`
}

// StringOrArray is a list written either as one string or as a sequence.
type StringOrArray []string
