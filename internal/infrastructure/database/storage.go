package database

import (
	"fmt"
	"strings"
)

type StorageDriver string

const (
	DriverDynamoDB StorageDriver = "dynamodb"
	DriverPostgres StorageDriver = "postgres"
	DriverMemory   StorageDriver = "memory"
)

// StorageDriverFromEnv reads STORAGE_DRIVER, defaulting to dynamodb.
func StorageDriverFromEnv() (StorageDriver, error) {
	return ParseStorageDriver(GetenvDefault("STORAGE_DRIVER", string(DriverDynamoDB)))
}

func ParseStorageDriver(v string) (StorageDriver, error) {
	switch d := StorageDriver(strings.ToLower(strings.TrimSpace(v))); d {
	case DriverDynamoDB, DriverPostgres, DriverMemory:
		return d, nil
	default:
		return "", fmt.Errorf("unknown STORAGE_DRIVER %q", v)
	}
}
