package common

import (
	"os"

	"github.com/google/uuid"
)

var serviceInstance string

// SERVICE_NAME
func GetServiceName() string {
	name := os.Getenv("SERVICE_NAME")
	if name == "" {
		return "converse"
	}
	return name
}

func GetServiceInstance() string {
	if serviceInstance == "" {
		hostname, err := os.Hostname()
		if err != nil || hostname == "" {
			hostname = uuid.New().String()
		}
		serviceInstance = hostname
	}
	return serviceInstance
}

type ErrorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}
