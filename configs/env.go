package configs

import (
	"log"
	"os"
	"sync"

	"github.com/joho/godotenv"
)

var loadOnce sync.Once

func loadEnv() {
	loadOnce.Do(func() {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found, reading from environment")
		}
	})
}

func EnvMongoURI() string {
	loadEnv()
	return os.Getenv("MONGOURI")
}

func EnvMongoDatabase() string {
	loadEnv()
	if name := os.Getenv("MONGO_DATABASE"); name != "" {
		return name
	}
	return "lecheese"
}

func EnvListenAddr() string {
	loadEnv()
	if addr := os.Getenv("LISTEN_ADDR"); addr != "" {
		return addr
	}
	return ":3000"
}

func EnvJwtSecret() string {
	loadEnv()
	return os.Getenv("JWT_SECRET")
}

func EnvCorsOrigin() string {
	loadEnv()
	if origin := os.Getenv("CORS_ORIGIN"); origin != "" {
		return origin
	}
	return "*"
}

func EnvRazorpayKeyId() string {
	loadEnv()
	return os.Getenv("RAZORPAY_KEY_ID")
}

func EnvRazorpayKeySecret() string {
	loadEnv()
	return os.Getenv("RAZORPAY_KEY_SECRET")
}

func EnvSmtpHost() string {
	loadEnv()
	return os.Getenv("SMTP_HOST")
}

func EnvSmtpPort() string {
	loadEnv()
	if port := os.Getenv("SMTP_PORT"); port != "" {
		return port
	}
	return "587"
}

func EnvSmtpUser() string {
	loadEnv()
	return os.Getenv("SMTP_USER")
}

func EnvSmtpPassword() string {
	loadEnv()
	return os.Getenv("SMTP_PASSWORD")
}

func EnvSmtpFrom() string {
	loadEnv()
	return os.Getenv("SMTP_FROM")
}

func EnvUploadProxyURL() string {
	loadEnv()
	return os.Getenv("UPLOAD_PROXY_URL")
}

func EnvUploadFolderId() string {
	loadEnv()
	return os.Getenv("UPLOAD_FOLDER_ID")
}
