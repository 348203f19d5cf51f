package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	KeyWebserverAddress       = "WEBSERVER_ADDRESS"
	KeyDataFile               = "DATA_FILE"
	KeyStoreBackend           = "STORE_BACKEND"
	KeySQLitePath             = "SQLITE_PATH"
	KeyAdminKey               = "ADMIN_KEY"
	KeyStaticDir              = "STATIC_DIR"
	KeyAllowNegativePenalties = "ALLOW_NEGATIVE_PENALTIES"
	KeyTelegramToken          = "TELEGRAM_TOKEN"
	KeySettingsDB             = "SETTINGS_DB"

	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

type Config struct {
	WebserverAddress       string
	DataFile               string
	StoreBackend           string
	SQLitePath             string
	AdminKey               string
	StaticDir              string
	AllowNegativePenalties bool
	TelegramToken          string
	SettingsDB             string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyWebserverAddress, ":8080")
	v.SetDefault(KeyDataFile, "rally_data.json")
	v.SetDefault(KeyStoreBackend, BackendFile)
	v.SetDefault(KeySQLitePath, "./rally.db")
	v.SetDefault(KeyAdminKey, "")
	v.SetDefault(KeyStaticDir, "wwwroot")
	v.SetDefault(KeyAllowNegativePenalties, false)
	v.SetDefault(KeyTelegramToken, "")
	v.SetDefault(KeySettingsDB, "./rally-bot.db")
}

// LoadDotEnv loads the variables of path into the environment. A missing
// file is not an error.
func LoadDotEnv(path string) {
	err := godotenv.Load(path)
	if err != nil && !os.IsNotExist(err) {
		log.Printf("error reading %s: %s\n", path, err)
	}
}

// Load reads the configuration from the environment. Flags in fs override it
// when they were set on the command line; a flag named data-file binds
// DATA_FILE.
func Load(fs *pflag.FlagSet) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if fs != nil {
		var bindErr error
		fs.VisitAll(func(f *pflag.Flag) {
			key := strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
			if err := v.BindPFlag(key, f); err != nil && bindErr == nil {
				bindErr = errors.Wrapf(err, "binding flag %s", f.Name)
			}
		})
		if bindErr != nil {
			return Config{}, bindErr
		}
	}

	cfg := Config{
		WebserverAddress:       v.GetString(KeyWebserverAddress),
		DataFile:               v.GetString(KeyDataFile),
		StoreBackend:           strings.ToLower(v.GetString(KeyStoreBackend)),
		SQLitePath:             v.GetString(KeySQLitePath),
		AdminKey:               v.GetString(KeyAdminKey),
		StaticDir:              v.GetString(KeyStaticDir),
		AllowNegativePenalties: v.GetBool(KeyAllowNegativePenalties),
		TelegramToken:          v.GetString(KeyTelegramToken),
		SettingsDB:             v.GetString(KeySettingsDB),
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	switch c.StoreBackend {
	case BackendFile, BackendSQLite:
		return nil
	}
	return errors.Errorf("unknown %s %q, use %q or %q", KeyStoreBackend, c.StoreBackend, BackendFile, BackendSQLite)
}
