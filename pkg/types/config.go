package types

// Config holds driver selection and parameters for opening a store.
type Config struct {
	Driver   string `json:"driver" yaml:"driver" mapstructure:"driver"`
	DSN      string `json:"dsn" yaml:"dsn" mapstructure:"dsn"`
	Coercion string `json:"coercion" yaml:"coercion" mapstructure:"coercion"`
}

// Supported driver names.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// knownDrivers lists the drivers that Validate accepts.
var knownDrivers = map[string]bool{
	DriverSQLite:   true,
	DriverPostgres: true,
	DriverMySQL:    true,
}

// CoercionPolicy decides what happens when a stored value cannot be parsed
// into the attribute type it is read into, for example the text "abc" read into
// an integer field, or null read into a non-pointer field.
type CoercionPolicy string

const (
	// CoercionStrict fails the read with ErrCoercion.
	CoercionStrict CoercionPolicy = "strict"
	// CoercionLenient leaves the attribute at its zero value.
	CoercionLenient CoercionPolicy = "lenient"
)

// Policy returns the configured coercion policy, defaulting to CoercionStrict.
func (c Config) Policy() CoercionPolicy {
	if c.Coercion == "" {
		return CoercionStrict
	}
	return CoercionPolicy(c.Coercion)
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.Driver == "" {
		return ErrDriverEmpty
	}
	if !knownDrivers[c.Driver] {
		return ErrDriverUnknown
	}
	switch c.Policy() {
	case CoercionStrict, CoercionLenient:
	default:
		return ErrCoercionUnknown
	}
	if c.Driver != DriverSQLite && c.DSN == "" {
		return ErrDSNInvalid
	}
	return nil
}
