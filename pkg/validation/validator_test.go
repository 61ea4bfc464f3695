package validation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name     string `json:"name" validate:"required"`
	Age      int    `json:"age" validate:"required,gt=0"`
	Gender   string `json:"gender" validate:"required,gender"`
	Role     string `json:"role" validate:"required,role"`
	Phone    string `json:"phoneNumber" validate:"required,phone"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,pwd"`
}

func validSample() sample {
	return sample{Name: "A", Age: 30, Gender: "Male", Role: "patient", Phone: "03001234567", Email: "a@x.com", Password: "abcdef"}
}

func TestStruct_Valid(t *testing.T) {
	assert.NoError(t, Struct(validSample()))
}

func TestStruct_ReportsJSONFieldNames(t *testing.T) {
	s := validSample()
	s.Name = ""
	s.Gender = "Robot"
	s.Role = "admin"
	s.Phone = "03-00"
	s.Password = "abc"

	err := Struct(s)
	require.Error(t, err)
	assert.True(t, HasTag(err, "required"))

	details := ToDetails(err)
	assert.Equal(t, "is required", details["name"])
	assert.Equal(t, "must be one of: Male, Female, Other", details["gender"])
	assert.Equal(t, "must be one of: patient, worker", details["role"])
	assert.Equal(t, "must contain digits only", details["phoneNumber"])
	assert.Equal(t, "must be at least 6 characters long", details["password"])
}

func TestStruct_PhoneDigitsOnly(t *testing.T) {
	for _, phone := range []string{"+923001234567", "-1", "1.0", "+3.5", "0300 1234567"} {
		s := validSample()
		s.Phone = phone
		err := Struct(s)
		require.Error(t, err, phone)
		assert.Equal(t, "must contain digits only", ToDetails(err)["phoneNumber"], phone)
	}

	s := validSample()
	s.Phone = "03001234567"
	assert.NoError(t, Struct(s))
}

func TestStruct_NonPositiveAge(t *testing.T) {
	s := validSample()
	s.Age = -1

	err := Struct(s)
	require.Error(t, err)
	assert.False(t, HasTag(err, "required"))
	assert.Equal(t, "must be greater than 0", ToDetails(err)["age"])
}

func TestToDetails_JSONErrors(t *testing.T) {
	var v struct {
		Age int `json:"age"`
	}
	err := json.Unmarshal([]byte(`{"age":"thirty"}`), &v)
	assert.Equal(t, map[string]string{"age": "must be a number"}, ToDetails(err))

	var w struct {
		Name string `json:"name"`
	}
	err = json.Unmarshal([]byte(`{"name":42}`), &w)
	assert.Equal(t, map[string]string{"name": "must be text"}, ToDetails(err))

	err = json.Unmarshal([]byte(`{`), &v)
	assert.Contains(t, ToDetails(err), "payload")

	assert.Nil(t, ToDetails(nil))
}
