package config

const (
	defaultDataDir           = "~/.local/share/kartoteka"
	defaultHashDBFile        = "hashes.sqlite"
	defaultSetLogoDir        = "set_logos"
	defaultLogDir            = "~/.local/share/kartoteka/logs"
	defaultNormalizeSize     = 256
	defaultTileRows          = 2
	defaultTileCols          = 2
	defaultMaxDescriptors    = 500
	defaultCandidateLimit    = 4
	defaultMaxDistance       = 5
	defaultLogoDiffThreshold = 20
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

// Default returns a Config populated with repository defaults. File names
// under [paths] stay relative here; normalize anchors them under data_dir.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:    defaultDataDir,
			SetLogoDir: defaultSetLogoDir,
			LogDir:     defaultLogDir,
		},
		Fingerprint: Fingerprint{
			NormalizeSize:  defaultNormalizeSize,
			TileRows:       defaultTileRows,
			TileCols:       defaultTileCols,
			UseFeatures:    true,
			MaxDescriptors: defaultMaxDescriptors,
		},
		Matching: Matching{
			CandidateLimit:    defaultCandidateLimit,
			MaxDistance:       defaultMaxDistance,
			LogoDiffThreshold: defaultLogoDiffThreshold,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
