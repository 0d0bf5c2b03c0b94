package cli

import "github.com/kiwi-automation/kiwi/config"

var (
	verbose      bool
	configPath   string
	logFormat    string
	outputFormat string

	// set by setup for commands that need the backend
	loadedConfig *config.Config

	// frame and code commands
	originPath    string
	templatePath  string
	regionSpec    string
	threshold     float64
	templateSize  string
	vertexHex     string
	relativeSpecs []string
	hexColors     []string
	rgbOffset     string
	subpath       string

	// image commands
	imageOutputPath string
	imageFormat     string
	imageQuality    int
	cropOrigin      string
	cropSize        string

	// project commands
	projectName     string
	projectLanguage string
	imageDataPath   string

	// zoom command
	zoomFactor float64

	// events commands
	eventName string

	// version command
	checkUpdate bool
)
