package config

import (
	"bytes"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/iancoleman/strcase"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Config stores global configuration
type Config struct {
	// Is development mode on
	IsDevelopment bool

	// Maximum time the service will be closing before stop is forced.
	StopTimeout time.Duration

	// Logging level
	LogLevel string

	Database  Database
	Gateway   Gateway
	Eth       Eth
	Confirmer Confirmer
	Redis     Redis
	Uploads   Uploads
}

func setDefaults() {
	viper.SetDefault("IsDevelopment", "false")
	viper.SetDefault("LogLevel", "DEBUG")
	viper.SetDefault("StopTimeout", "30s")

	setDatabaseDefaults()
	setGatewayDefaults()
	setEthDefaults()
	setConfirmerDefaults()
	setRedisDefaults()
	setUploadsDefaults()
}

func Default() (config *Config) {
	config, _ = Load("")
	return
}

func BindEnv(path []string, val reflect.Value) {
	if val.Kind() != reflect.Struct {
		// Base types and slices of base types
		key := strings.Join(path, ".")
		env := "CLAIMGATE_" + strcase.ToScreamingSnake(strings.Join(path, "_"))
		err := viper.BindEnv(key, env)
		if err != nil {
			panic(err)
		}
	} else {
		// Iterates over struct fields
		for i := 0; i < val.NumField(); i++ {
			newPath := make([]string, len(path))
			copy(newPath, path)
			newPath = append(newPath, val.Type().Field(i).Name)
			BindEnv(newPath, val.Field(i))
		}
	}
}

// Legacy ENV names stay bound so existing deployments keep working
func bindLegacyAliases() {
	aliases := map[string]string{
		"Database.URI":                      "MONGODB_URI",
		"Eth.RpcUrl":                        "RPC_URL",
		"Eth.ChainId":                       "NEXT_PUBLIC_CHAIN_ID",
		"Eth.IdentityRegistryAddress":       "NEXT_PUBLIC_IDENTITY_REGISTRY_ADDRESS",
		"Eth.TrustedIssuersRegistryAddress": "NEXT_PUBLIC_TRUSTED_ISSUERS_REGISTRY_ADDRESS",
		"Eth.ClaimTopicsRegistryAddress":    "NEXT_PUBLIC_CLAIM_TOPICS_REGISTRY_ADDRESS",
		"Eth.TokenCloneFactoryAddress":      "NEXT_PUBLIC_TOKEN_CLONE_FACTORY_ADDRESS",
	}
	for key, env := range aliases {
		err := viper.BindEnv(key, env)
		if err != nil {
			panic(err)
		}
	}
}

func defaultDecoderConfig(output interface{}) *mapstructure.DecoderConfig {
	c := &mapstructure.DecoderConfig{
		Metadata:         nil,
		Result:           output,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	}
	return c
}

// Load configuration from file and env
func Load(filename string) (config *Config, err error) {
	viper.SetConfigType("json")

	setDefaults()

	// Visits every field and registers upper snake case ENV name for it
	// Works with embedded structs
	BindEnv([]string{}, reflect.ValueOf(Config{}))
	bindLegacyAliases()

	// Empty filename means we use default values
	if filename != "" {
		var content []byte
		/* #nosec */
		content, err = os.ReadFile(filename)
		if err != nil {
			return nil, err
		}

		err = viper.ReadConfig(bytes.NewBuffer(content))
		if err != nil {
			return nil, err
		}
	}

	config = new(Config)
	err = viper.Unmarshal(&config, viper.DecodeHook(defaultDecoderConfig(config).DecodeHook))
	if err != nil {
		return nil, err
	}

	return
}
