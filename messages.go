package settings

// FieldMessages collects the diagnostics one field accumulated during a
// sanitize/validate pass. Warnings come from failed validators, notices from
// sanitizers; notices never block acceptance.
type FieldMessages struct {
	Warnings []string
	Notices  []string
}

// Messages maps field keys to their accumulated diagnostics.
type Messages map[string]FieldMessages

// Empty reports whether no field carries any message.
func (m Messages) Empty() bool {
	return len(m) == 0
}

// WarningsFor returns the warnings recorded for key, nil when there are none.
func (m Messages) WarningsFor(key string) []string {
	return m[NormalizeKey(key)].Warnings
}

// NoticesFor returns the notices recorded for key, nil when there are none.
func (m Messages) NoticesFor(key string) []string {
	return m[NormalizeKey(key)].Notices
}

// messageSink is the append-only buffer the pipeline writes into. It is
// drained exactly once by Store.TakeMessages.
type messageSink struct {
	fields Messages
}

func newMessageSink() *messageSink {
	return &messageSink{fields: Messages{}}
}

func (s *messageSink) warn(key, message string) {
	field := s.fields[key]
	field.Warnings = append(field.Warnings, message)
	s.fields[key] = field
}

func (s *messageSink) notice(key, message string) {
	field := s.fields[key]
	field.Notices = append(field.Notices, message)
	s.fields[key] = field
}

// drain hands the accumulated messages to the caller and resets the sink, so
// a second consecutive drain returns an empty structure.
func (s *messageSink) drain() Messages {
	out := s.fields
	s.fields = Messages{}
	return out
}
