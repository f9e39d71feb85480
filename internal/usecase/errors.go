package usecase

import (
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// isNotFound reports whether err means the referenced document does not
// exist, either because no document matched or because the id itself is not a
// valid ObjectID hex string.
func isNotFound(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments) || errors.Is(err, bson.ErrInvalidHex)
}
