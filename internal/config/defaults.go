package config

const (
	defaultConfigPath        = "~/.config/bleeper/config.toml"
	defaultPadMS             = 50
	defaultTargetSampleRate  = 16000
	defaultToneFrequencyHz   = 1000
	defaultAmplitudeFraction = 0.6
	defaultWhisperModel      = "small"
	defaultVADMethod         = "silero"
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

// defaultLexicon is the stock blocklist; Arabic entries are stored in their
// plain spelling and match vocalized or hamza-variant transcriptions.
var defaultLexicon = []string{"حيوان", "زق", "غبي", "idiot", "stupid", "shit"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Redaction: Redaction{
			Lexicon:           append([]string(nil), defaultLexicon...),
			PadMS:             defaultPadMS,
			TargetSampleRate:  defaultTargetSampleRate,
			ToneFrequencyHz:   defaultToneFrequencyHz,
			AmplitudeFraction: defaultAmplitudeFraction,
		},
		Transcription: Transcription{
			Model:     defaultWhisperModel,
			Languages: []string{"ar", "en"},
			VADMethod: defaultVADMethod,
		},
		Cache: Cache{
			Enabled: true,
			Dir:     defaultCacheDir(),
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
