package models

import (
	"encoding/base64"
	"testing"

	"cropgenius-api/internal/oracle"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnoseRequestValidate(t *testing.T) {
	valid := DiagnoseRequest{
		ImageBase64: base64.StdEncoding.EncodeToString([]byte("photo")),
		CropType:    "maize",
	}
	assert.NoError(t, valid.Validate())

	cases := []struct {
		name   string
		mutate func(r *DiagnoseRequest)
		field  string
	}{
		{"missing image", func(r *DiagnoseRequest) { r.ImageBase64 = "" }, "image_base64"},
		{"not base64", func(r *DiagnoseRequest) { r.ImageBase64 = "not!!base64??" }, "image_base64"},
		{"missing crop", func(r *DiagnoseRequest) { r.CropType = "" }, "crop_type"},
		{"latitude out of range", func(r *DiagnoseRequest) { lat := 91.0; r.Latitude = &lat }, "latitude"},
		{"longitude out of range", func(r *DiagnoseRequest) { lng := -181.0; r.Longitude = &lng }, "longitude"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := valid
			tc.mutate(&req)
			err := req.Validate()
			var validationErr *oracle.ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tc.field, validationErr.Field)
		})
	}
}

func TestYieldRequestValidate(t *testing.T) {
	valid := YieldRequest{CropType: "maize", FarmSizeHectares: 2.5, PlantingDate: "2026-03-15"}
	assert.NoError(t, valid.Validate())

	badDate := valid
	badDate.PlantingDate = "15/03/2026"
	err := badDate.Validate()
	var validationErr *oracle.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "planting_date", validationErr.Field)

	zeroSize := valid
	zeroSize.FarmSizeHectares = 0
	require.ErrorAs(t, zeroSize.Validate(), &validationErr)
	assert.Equal(t, "farm_size_hectares", validationErr.Field)
}

func TestCreateFarmRequestValidate(t *testing.T) {
	valid := CreateFarmRequest{FarmName: "Shamba Moja", CropType: "maize", SizeHectares: 1.2}
	assert.NoError(t, valid.Validate())

	twoPoints := valid
	twoPoints.Boundary = [][2]float64{{36.8, -1.2}, {36.9, -1.2}}
	var validationErr *oracle.ValidationError
	require.ErrorAs(t, twoPoints.Validate(), &validationErr)
	assert.Equal(t, "boundary", validationErr.Field)

	ring := valid
	ring.Boundary = [][2]float64{{36.8, -1.2}, {36.9, -1.2}, {36.9, -1.3}}
	assert.NoError(t, ring.Validate())
}

func TestCreateListingRequestValidate_DefaultsCurrency(t *testing.T) {
	req := CreateListingRequest{CropType: "maize", Region: "Nakuru", PricePerKg: 45}
	require.NoError(t, req.Validate())
	assert.Equal(t, "KES", req.Currency)
}
