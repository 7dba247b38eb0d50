package config

type AssetSettings struct {
	// Roots are checked in order when resolving an asset; the first root
	// that contains the file wins.
	Roots []string
	// Scale multiplies placeholder dimensions when the manifest does not
	// declare a size for an asset.
	Scale int
}

type DataSettings struct {
	Manifest string
	Floors   string
	Tasks    string
}

type ReloadSettings struct {
	// Watch enables polling the data files for changes. The poll only
	// marks the store dirty; the reload itself runs at the frame boundary.
	Watch bool
	// PollSeconds is the minimum interval between mtime checks.
	PollSeconds int
}

type Config struct {
	Assets AssetSettings
	Data   DataSettings
	Reload ReloadSettings
}
