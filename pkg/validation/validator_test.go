package validation

import (
	"encoding/json"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
)

type sample struct {
	Email  string `json:"email" binding:"required,email"`
	Rating int    `json:"rating" binding:"required,rating"`
	Name   string `json:"name" binding:"max=3"`
}

func TestToDetailsUsesJSONNames(t *testing.T) {
	Init()
	err := binding.Validator.ValidateStruct(&sample{Email: "nope", Rating: 5, Name: "toolong"})
	details := ToDetails(err)

	assert.Equal(t, "must be a valid email", details["email"])
	assert.Equal(t, "must be between 1 and 3", details["rating"])
	assert.Equal(t, "must be at most 3 characters", details["name"])
}

func TestToDetailsJSONErrors(t *testing.T) {
	var s sample
	err := json.Unmarshal([]byte(`{"rating":"x"}`), &s)
	assert.Equal(t, map[string]string{"rating": "must be a int"}, ToDetails(err))

	err = json.Unmarshal([]byte(`{`), &s)
	assert.Contains(t, ToDetails(err), "payload")

	assert.Nil(t, ToDetails(nil))
}
