package substitution

// GenerateWith exposes the mapping builder with a caller-controlled integer source.
var GenerateWith = generate
