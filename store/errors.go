package store

import "errors"

// ErrTransactionTooLarge is returned when an operation needs more actions
// than a single DynamoDB transaction accepts.
var ErrTransactionTooLarge = errors.New("menustore: operation exceeds the DynamoDB transaction limit")
