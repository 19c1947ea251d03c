package models

// Dataset is every persisted collection, as loaded from or written to storage.
type Dataset struct {
	Personas    []Persona         `json:"personas" yaml:"personas"`
	Benchmarks  []Benchmark       `json:"benchmarks" yaml:"benchmarks"`
	Actions     []ElementalAction `json:"actions" yaml:"actions"`
	Logs        []DailyLog        `json:"logs" yaml:"logs"`
	Reflections []Reflection      `json:"reflections" yaml:"reflections"`
}

// Removal lists the records dropped by a cascading delete.
type Removal struct {
	Personas   []PersonaID
	Benchmarks []BenchmarkID
	Actions    []ActionID
	Logs       []LogID
}

func (r Removal) Empty() bool {
	return len(r.Personas) == 0 && len(r.Benchmarks) == 0 && len(r.Actions) == 0 && len(r.Logs) == 0
}

// Settings are persisted key/value preferences.
type Settings struct {
	Timezone      string    `json:"timezone"`
	ActivePersona PersonaID `json:"active_persona,omitempty"`
}
