package utils

import (
	"Backend-VentSurvey/src/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestValidateStruct(t *testing.T) {
	t.Run("MissingRequiredField", func(t *testing.T) {
		fields := ValidateStruct(&models.AreaSurvey{})
		require.NotNil(t, fields)
		assert.Equal(t, "siteID is required", fields["siteID"])
	})

	t.Run("ValidStruct", func(t *testing.T) {
		fields := ValidateStruct(&models.AreaSurvey{SiteID: primitive.NewObjectID()})
		assert.Nil(t, fields)
	})

	t.Run("SiteName", func(t *testing.T) {
		fields := ValidateStruct(&models.Site{})
		require.NotNil(t, fields)
		assert.Contains(t, fields, "name")

		fields = ValidateStruct(&models.Site{Name: "The Golden Wok"})
		assert.Nil(t, fields)
	})
}

func TestLowerFirst(t *testing.T) {
	assert.Equal(t, "siteID", lowerFirst("SiteID"))
	assert.Equal(t, "name", lowerFirst("name"))
	assert.Equal(t, "", lowerFirst(""))
}
