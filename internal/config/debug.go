package config

import "os"

func IsDebug() bool {
	return os.Getenv("KPIGPT_DEBUG") == "1"
}
