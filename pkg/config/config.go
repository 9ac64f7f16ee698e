package config

// this holds the resolved configuration values from CLI
var (
	LogLevel          string // sets the log level (zap log level values)
	LogFormat         string // text vs json
	LogConfig         string // path to log config file
	EnableTelemetry   bool   // enable telemetry
	TelemetryEndpoint string // endpoint for telemetry

	BrakeThreshold float64 // brake input that marks a braking event (release at half)
	LiftThreshold  float64 // throttle below this counts as a lift (re-arm at 1.2x)
	PowerThreshold float64 // throttle at or above this counts as power-on

	OutputFormat string // report output format (text, json)
	Speed        int    // replay speed multiplier (0 means: go as fast as possible)
	Reference    string // reference capture used for approach cues during replay
	TrackLength  string // track length override for cue distances (e.g. "4.3 km")
)
