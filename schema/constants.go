package schema

// Custom string types for type safety.
type (
	// Granularity is the bucket width unit.
	Granularity string

	// BarMode selects how bar heights are derived.
	BarMode string

	// Tier is the symbolic color band handed to rendering surfaces.
	Tier string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for caching.
	DatabaseBackend string

	// PrimitiveKind identifies the type of a draw primitive.
	PrimitiveKind string

	// LoadState is the observable state of a data fetch.
	LoadState string
)

// All granularities supported.
const (
	DayGranularity  Granularity = "day" // default
	WeekGranularity Granularity = "week"
)

// All bar modes supported.
const (
	ComplexityBars BarMode = "complexity" // default
	RawBars        BarMode = "raw"
)

// All tiers supported.
const (
	LowTier    Tier = "low"
	MediumTier Tier = "medium"
	HighTier   Tier = "high"
)

// All output modes supported.
const (
	TextOut    OutputMode = "text" // default
	CSVOut     OutputMode = "csv"
	JSONOut    OutputMode = "json"
	HTMLOut    OutputMode = "html"
	ParquetOut OutputMode = "parquet"
)

// All cache backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	BoltBackend       DatabaseBackend = "bolt"
	NoneBackend       DatabaseBackend = "none"
)

// All primitive kinds emitted by the layout stage.
const (
	RectPrimitive  PrimitiveKind = "rect"
	LinePrimitive  PrimitiveKind = "line"
	LabelPrimitive PrimitiveKind = "label"
)

// All load states of a fetch.
const (
	IdleState    LoadState = "idle"
	LoadingState LoadState = "loading"
	ErrorState   LoadState = "error"
	ReadyState   LoadState = "ready"
)

// ValidGranularities lists all valid granularities.
var ValidGranularities = map[Granularity]struct{}{
	DayGranularity:  {},
	WeekGranularity: {},
}

// ValidBarModes lists all valid bar modes.
var ValidBarModes = map[BarMode]struct{}{
	ComplexityBars: {},
	RawBars:        {},
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut:    {},
	CSVOut:     {},
	JSONOut:    {},
	HTMLOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid cache backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	BoltBackend:       {},
	NoneBackend:       {},
}

// ValidTiers lists all valid tiers.
var ValidTiers = map[Tier]struct{}{
	LowTier:    {},
	MediumTier: {},
	HighTier:   {},
}
