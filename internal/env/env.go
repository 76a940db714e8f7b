package env

import (
	"os"
	"path"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"unibase/internal/logger"
)

// actual environment variables
var (
	MONGO_URI  string
	REDIS_URI  string
	JWT_SECRET []byte

	S3_ENDPOINT   string
	S3_REGION     string
	S3_BUCKET     string
	S3_ACCESS_KEY string
	S3_SECRET_KEY string

	TENANT_ID   string
	PREFORK     bool
	JOB_WORKERS int
)

var VERSION string

// Init loads the .env file (when present) and resolves every variable the
// process needs. Missing required values abort startup.
func Init(envRoot string, appVersion string) {
	loadEnv(envRoot)
	loadVersion(appVersion)

	MONGO_URI = required("MONGO_URI")
	REDIS_URI = required("REDIS_URI")
	JWT_SECRET = []byte(required("JWT_SECRET"))

	S3_ENDPOINT = required("S3_ENDPOINT")
	S3_REGION = required("S3_REGION")
	S3_BUCKET = required("S3_BUCKET")
	S3_ACCESS_KEY = required("S3_ACCESS_KEY")
	S3_SECRET_KEY = required("S3_SECRET_KEY")

	TENANT_ID = strings.TrimSpace(os.Getenv("TENANT_ID"))
	if TENANT_ID == "" {
		TENANT_ID = "default_tenant"
	}

	PREFORK, _ = strconv.ParseBool(os.Getenv("PREFORK"))

	JOB_WORKERS, _ = strconv.Atoi(os.Getenv("JOB_WORKERS"))
	if JOB_WORKERS <= 0 {
		JOB_WORKERS = 4
	}
}

func required(key string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		logger.Sugar.Fatalf("required environment variable %s is not set", key)
	}
	return value
}

func loadEnv(envRoot string) {
	if envRoot == "" {
		return
	}

	file := path.Join(envRoot, ".env")
	if err := godotenv.Overload(file); err != nil {
		logger.Sugar.Fatalf("failed to load env file %s: %v", file, err)
	}
}

func loadVersion(appVersion string) {
	VERSION = strings.TrimSpace(appVersion)
	if VERSION == "" {
		VERSION = strings.TrimSpace(os.Getenv("APP_VERSION"))
	}
	if VERSION == "" {
		VERSION = "dev"
	}
}
