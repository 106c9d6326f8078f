package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/tdex-network/tdex-signer/internal/core/application"
	"github.com/tdex-network/tdex-signer/internal/infrastructure/dialog"
	"github.com/tdex-network/tdex-signer/pkg/wallet"

	"github.com/spf13/viper"
)

const (
	// RPCListeningPortKey is the port where the JSON-RPC interface will listen on
	RPCListeningPortKey = "RPC_LISTENING_PORT"
	// DatadirKey is the local data directory to store the internal state of daemon
	DatadirKey = "DATADIR"
	// LogLevelKey are the different logging levels. For reference on the values https://godoc.org/github.com/sirupsen/logrus#Level
	LogLevelKey = "LOG_LEVEL"
	// DBTypeKey is used to switch database type between those supported
	DBTypeKey = "DB_TYPE"
	// RedisAddrKey is the <host:port> address of the redis server, used only
	// with redis db type
	RedisAddrKey = "REDIS_ADDR"
	// DerivationPathKey is the absolute path of the signing keys, ie. m/71657769'/60'/0'
	DerivationPathKey = "DERIVATION_PATH"
	// ConsentModeKey selects how the consent dialog is answered. Either
	// "prompt", "approve" or "reject"
	ConsentModeKey = "CONSENT_MODE"
	// PasswordFileKey defines full path to a file that contains the password
	// for decrypting the seed file
	PasswordFileKey = "PASSWORD_FILE"
	// EnableMetricsKey exposes prometheus metrics on the /metrics endpoint
	EnableMetricsKey = "ENABLE_METRICS"
	// CORSAllowedOriginsKey is the list of origins allowed to call the
	// JSON-RPC interface from a browser
	CORSAllowedOriginsKey = "CORS_ALLOWED_ORIGINS"
	// ShutdownTimeoutKey is the time given to pending requests to complete
	// when the daemon is stopped
	ShutdownTimeoutKey = "SHUTDOWN_TIMEOUT"
	// LogToFileKey enables writing logs also to a rotating file in the datadir
	LogToFileKey = "LOG_TO_FILE"
	// StatsIntervalKey is the interval at which memory statistics are logged.
	// Zero disables them
	StatsIntervalKey = "STATS_INTERVAL"

	DbLocation   = "db"
	LogsLocation = "logs"
)

var vip *viper.Viper
var defaultDatadir = btcutil.AppDataDir("tdex-signer", false)

func InitConfig() error {
	vip = viper.New()
	vip.SetEnvPrefix("SIGNER")
	vip.AutomaticEnv()

	vip.SetDefault(RPCListeningPortKey, 9955)
	vip.SetDefault(LogLevelKey, 4)
	vip.SetDefault(DatadirKey, defaultDatadir)
	vip.SetDefault(DBTypeKey, application.DBBadger)
	vip.SetDefault(DerivationPathKey, wallet.DefaultSigningDerivationPath.String())
	vip.SetDefault(ConsentModeKey, dialog.ModePrompt)
	vip.SetDefault(EnableMetricsKey, false)
	vip.SetDefault(CORSAllowedOriginsKey, []string{})
	vip.SetDefault(ShutdownTimeoutKey, 5*time.Second)
	vip.SetDefault(StatsIntervalKey, 0)
	vip.SetDefault(LogToFileKey, false)

	if err := validate(); err != nil {
		return fmt.Errorf("error while validating config: %s", err)
	}

	if err := initDatadir(); err != nil {
		return fmt.Errorf("error while creating datadir: %s", err)
	}

	return nil
}

func GetString(key string) string {
	return vip.GetString(key)
}

func GetInt(key string) int {
	return vip.GetInt(key)
}

func GetStringSlice(key string) []string {
	return vip.GetStringSlice(key)
}

func GetDuration(key string) time.Duration {
	return vip.GetDuration(key)
}

func GetBool(key string) bool {
	return vip.GetBool(key)
}

func GetDatadir() string {
	return GetString(DatadirKey)
}

// GetDbDir returns the directory of the badger db.
func GetDbDir() string {
	return filepath.Join(GetDatadir(), DbLocation)
}

// GetLogsDir returns the directory of the rotating log files.
func GetLogsDir() string {
	return filepath.Join(GetDatadir(), LogsLocation)
}

// GetDerivationPath returns the parsed signing derivation path.
func GetDerivationPath() wallet.DerivationPath {
	path, _ := wallet.ParseSigningDerivationPath(GetString(DerivationPathKey))
	return path
}

// GetPassword reads the seed password from the password file, if any.
func GetPassword() (string, error) {
	passwordFile := GetString(PasswordFileKey)
	if len(passwordFile) <= 0 {
		return "", nil
	}
	buf, err := os.ReadFile(passwordFile)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(buf)), nil
}

func validate() error {
	datadir := GetString(DatadirKey)
	if len(datadir) <= 0 {
		return fmt.Errorf("missing datadir")
	}

	dbType := GetString(DBTypeKey)
	if _, ok := application.SupportedDBType[dbType]; !ok {
		return fmt.Errorf("db type %s not supported", dbType)
	}
	if dbType == application.DBRedis && len(GetString(RedisAddrKey)) <= 0 {
		return fmt.Errorf("%s is required with %s db type", RedisAddrKey, dbType)
	}

	if _, err := wallet.ParseSigningDerivationPath(
		GetString(DerivationPathKey),
	); err != nil {
		return fmt.Errorf("invalid %s: %s", DerivationPathKey, err)
	}

	consentMode := GetString(ConsentModeKey)
	if _, ok := dialog.SupportedModes[consentMode]; !ok {
		return fmt.Errorf("consent mode %s not supported", consentMode)
	}

	port := GetInt(RPCListeningPortKey)
	if port <= 0 || port > 65535 {
		return fmt.Errorf("%s must be in range (0, 65535]", RPCListeningPortKey)
	}

	return nil
}

func initDatadir() error {
	datadir := GetDatadir()
	if err := makeDirectoryIfNotExists(datadir); err != nil {
		return err
	}

	switch GetString(DBTypeKey) {
	case application.DBBadger, application.DBBolt:
		if err := makeDirectoryIfNotExists(GetDbDir()); err != nil {
			return err
		}
	}
	return nil
}

func makeDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, os.ModeDir|0755)
	}
	return nil
}
