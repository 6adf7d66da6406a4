package cmd

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	configVersionKey     = "version"
	currentConfigVersion = 1

	configBaseName   = "cabpack"
	configFileName   = configBaseName + ".yaml"
	configFolderPath = "."

	outputFlagName  = "output"
	verboseFlagName = "verbose"
	logFileFlagName = "log-file"
	workDirFlagName = "workdir"

	appNameKey          = "app.name"
	appEntryKey         = "app.entry"
	appConfigKey        = "app.config"
	appStylesheetKey    = "app.stylesheet"
	appAssetsKey        = "app.assets"
	appIconKey          = "app.icon"
	appIconFallbackKey  = "app.icon_fallback"
	appHiddenImportsKey = "app.hidden_imports"

	buildOutputKey       = "build.output"
	buildVenvKey         = "build.venv"
	buildRequirementsKey = "build.requirements"
	buildFreezeToolKey   = "build.pyinstaller"
	buildTimeoutKey      = "build.timeout"

	deployServerKey   = "deploy.server"
	deployPasswordKey = "deploy.password"

	defaultAppName       = "cabinet_status"
	defaultAppEntry      = "cabinet_status_main.py"
	defaultAppConfig     = "db_config.ini"
	defaultAppStylesheet = "app_style.qss"
	defaultAppAssets     = "assets"
	defaultAppIcon       = "assets/app_icon.ico"
	defaultIconFallback  = "app_icon.ico"

	defaultBuildOutput  = "dist"
	defaultBuildVenv    = ".cabpack-venv"
	defaultRequirements = "requirements.txt"
	defaultFreezeTool   = "pyinstaller"

	// Freezing a PyQt application routinely takes several minutes.
	defaultBuildTimeout = time.Minute * 10

	// Historical deployment target of the cabinet workstation fleet. Sites
	// that differ override these in cabpack.yaml or the environment.
	defaultDeployServer   = "192.168.10.219"
	defaultDeployPassword = "Rivamed@2022"

	envPrefix = "CABPACK"

	logFilenameKey   = "log.filename"
	logLevelKey      = "log.level"
	logVerboseKey    = "log.verbose"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	defaultLogFilename   = ".cabpack.log"
	defaultLogLevel      = int(slog.LevelInfo)
	defaultLogVerbose    = false
	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true
)

var globalLogger *slog.Logger

func init() {
	viper.SetConfigName(configBaseName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configFolderPath)
	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	viper.SetDefault(configVersionKey, currentConfigVersion)

	viper.SetDefault(appNameKey, defaultAppName)
	viper.SetDefault(appEntryKey, defaultAppEntry)
	viper.SetDefault(appConfigKey, defaultAppConfig)
	viper.SetDefault(appStylesheetKey, defaultAppStylesheet)
	viper.SetDefault(appAssetsKey, defaultAppAssets)
	viper.SetDefault(appIconKey, defaultAppIcon)
	viper.SetDefault(appIconFallbackKey, defaultIconFallback)
	viper.SetDefault(appHiddenImportsKey, []string{"pyodbc"})

	viper.SetDefault(buildOutputKey, defaultBuildOutput)
	viper.SetDefault(buildVenvKey, defaultBuildVenv)
	viper.SetDefault(buildRequirementsKey, defaultRequirements)
	viper.SetDefault(buildFreezeToolKey, defaultFreezeTool)
	viper.SetDefault(buildTimeoutKey, int64(defaultBuildTimeout.Seconds()))

	viper.SetDefault(deployServerKey, defaultDeployServer)
	viper.SetDefault(deployPasswordKey, defaultDeployPassword)

	// Logging defaults (used by config/env and as fallbacks for flags).
	viper.SetDefault(logFilenameKey, defaultLogFilename)
	viper.SetDefault(logLevelKey, defaultLogLevel)
	viper.SetDefault(logVerboseKey, defaultLogVerbose)
	viper.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	viper.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	viper.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	viper.SetDefault(logCompressKey, defaultLogCompress)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			slog.Warn("Failed to read config file", "error", err)
		}
	}
}

func parseSlogLevel(value string, defaultLevel slog.Level) slog.Level {
	level := strings.ToLower(strings.TrimSpace(value))
	if level == "" {
		return defaultLevel
	}

	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	// Allow numeric slog levels as well (e.g. -4 for debug).
	if n, err := strconv.Atoi(level); err == nil {
		return slog.Level(n)
	}

	return defaultLevel
}

// configureLogger configures the global slog logger.
//
// By default it logs at Info; if verbose is true it logs at Debug.
func configureLogger(logPath string, verbose bool) {
	if strings.TrimSpace(logPath) == "" {
		logPath = viper.GetString(logFilenameKey)
	}

	if strings.TrimSpace(logPath) == "" {
		logPath = defaultLogFilename
	}

	var logLevel slog.Level
	if verbose {
		logLevel = slog.LevelDebug
	} else {
		logLevel = parseSlogLevel(viper.GetString(logLevelKey), slog.LevelInfo)
	}

	logWriter := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    viper.GetInt(logMaxSizeKey),
		MaxBackups: viper.GetInt(logMaxBackupsKey),
		MaxAge:     viper.GetInt(logMaxAgeKey),
		Compress:   viper.GetBool(logCompressKey),
	}

	handler := slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		AddSource: true,
		Level:     logLevel,
	})

	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)
}
