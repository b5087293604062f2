package bookingRepo

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestIsTransientConflict(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"write conflict code", mongo.CommandError{Code: writeConflictCode, Name: "WriteConflict"}, true},
		{"transient label", mongo.CommandError{Code: 251, Labels: []string{"TransientTransactionError"}}, true},
		{"wrapped", fmt.Errorf("commit: %w", mongo.CommandError{Code: writeConflictCode}), true},
		{"duplicate key", mongo.CommandError{Code: 11000}, false},
		{"plain error", errors.New("network down"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isTransientConflict(tt.err))
		})
	}
}
