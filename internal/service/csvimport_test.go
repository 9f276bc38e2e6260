package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSalesCSV_HeaderDetectedAndSkipped(t *testing.T) {
	in := strings.NewReader("product_name,quantity,sale_price\nPizza,10,\nCaesar Salad,4,7.50\n")

	records, rejected, err := ParseSalesCSV(in)
	require.NoError(t, err)
	require.Empty(t, rejected)
	require.Len(t, records, 2)

	assert.Equal(t, "Pizza", records[0].ProductName)
	assert.True(t, records[0].Quantity.Equal(dec("10")))
	assert.Nil(t, records[0].SalePrice, "empty price column stays nil")

	assert.Equal(t, "Caesar Salad", records[1].ProductName)
	require.NotNil(t, records[1].SalePrice)
	assert.True(t, records[1].SalePrice.Equal(dec("7.50")))
}

func TestParseSalesCSV_NoHeader(t *testing.T) {
	in := strings.NewReader("Pizza,3\nBurger,2\n")

	records, rejected, err := ParseSalesCSV(in)
	require.NoError(t, err)
	require.Empty(t, rejected)
	require.Len(t, records, 2, "a numeric first row is data, not a header")
}

func TestParseSalesCSV_TrimsNamesOnly(t *testing.T) {
	in := strings.NewReader("  Pizza  , 2 \n")

	records, rejected, err := ParseSalesCSV(in)
	require.NoError(t, err)
	require.Empty(t, rejected)
	require.Len(t, records, 1)
	assert.Equal(t, "Pizza", records[0].ProductName, "surrounding whitespace is not part of the name")
}

func TestParseSalesCSV_RejectsBadRowsAndKeepsGoing(t *testing.T) {
	in := strings.NewReader(strings.Join([]string{
		"product_name,quantity,sale_price",
		"Pizza,10",
		",5",           // empty name
		"Burger,zero",  // quantity not numeric
		"Fries,-2",     // non-positive quantity
		"Salad",        // too few columns
		"Cola,3,x",     // bad price
		"Wings,4,-1.5", // negative price
		"Soup,2,6.00",
	}, "\n"))

	records, rejected, err := ParseSalesCSV(in)
	require.NoError(t, err, "bad rows are rejects, never a parse failure")

	require.Len(t, records, 2)
	assert.Equal(t, "Pizza", records[0].ProductName)
	assert.Equal(t, "Soup", records[1].ProductName)

	require.Len(t, rejected, 6)
	assert.Contains(t, rejected[0], "row 3")
	assert.Contains(t, rejected[0], "empty")
	assert.Contains(t, rejected[1], "not a number")
	assert.Contains(t, rejected[2], "must be positive")
	assert.Contains(t, rejected[3], "expected at least 2 columns")
	assert.Contains(t, rejected[4], "sale price")
	assert.Contains(t, rejected[5], "must not be negative")
}

func TestParseSalesCSV_MalformedFirstRowIsRejectedNotSkipped(t *testing.T) {
	// Headerless input whose first data row carries a bad quantity: it must
	// show up in the reject list, not vanish as a presumed header.
	in := strings.NewReader("Pizza,ten\nBurger,2\n")

	records, rejected, err := ParseSalesCSV(in)
	require.NoError(t, err)

	require.Len(t, records, 1)
	assert.Equal(t, "Burger", records[0].ProductName)
	require.Len(t, rejected, 1)
	assert.Contains(t, rejected[0], "row 1")
	assert.Contains(t, rejected[0], "not a number")
}

func TestParseSalesCSV_HeaderCaptionCaseInsensitive(t *testing.T) {
	in := strings.NewReader("Product_Name,Quantity\nPizza,2\n")

	records, rejected, err := ParseSalesCSV(in)
	require.NoError(t, err)
	require.Empty(t, rejected)
	require.Len(t, records, 1)
}

func TestParseSalesCSV_EmptyInput(t *testing.T) {
	records, rejected, err := ParseSalesCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Empty(t, rejected)
}
