package instance

import "os"

// GetID returns the identifier for this process instance, used as a log
// field so replicas can be told apart.
func GetID() string {
	if id := os.Getenv("CHACKCHACK_INSTANCE_ID"); id != "" {
		return id
	}
	if id := os.Getenv("DYNO"); id != "" {
		return id
	}
	return "local"
}
