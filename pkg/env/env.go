// package env contains simple getters for the environment variables shared by
// the mapsmoke commands.
package env

import (
	"os"
)

const (
	KeyAPIKey     = "GOOGLE_MAPS_API_KEY"
	KeyConfigFile = "MAPSMOKE_CONFIG"
	KeyDatabase   = "DATABASE_URL"
	KeyPort       = "PORT"
)

// GoogleMapsAPIKey is the credential used for every Maps request. Empty when
// unset.
func GoogleMapsAPIKey() string {
	return os.Getenv(KeyAPIKey)
}

// ConfigFile is the JSON file the key is read from when GOOGLE_MAPS_API_KEY
// is unset.
func ConfigFile() string {
	return os.Getenv(KeyConfigFile)
}

func DatabaseURL() string {
	return os.Getenv(KeyDatabase)
}

func Port() string {
	var port string
	if port = os.Getenv(KeyPort); port == "" {
		port = "8080"
	}

	return port
}
