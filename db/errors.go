package db

import (
	"essayhub/services"
)

func notFound(entity, id string) error {
	return &services.NotFoundError{Entity: entity, ID: id}
}

func persistErr(op string, err error) error {
	return &services.PersistenceError{Op: op, Err: err}
}
