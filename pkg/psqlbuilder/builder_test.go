package psqlbuilder

import (
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelect_UsesDollarPlaceholders(t *testing.T) {
	query, args, err := Select("id", "status").
		From("allocations").
		Where(squirrel.Eq{"facility_id": 7}).
		Where(squirrel.Eq{"status": "active"}).
		ToSql()

	require.NoError(t, err)
	assert.Equal(t, "SELECT id, status FROM allocations WHERE facility_id = $1 AND status = $2", query)
	assert.Equal(t, []interface{}{7, "active"}, args)
}

func TestUpdate_UsesDollarPlaceholders(t *testing.T) {
	query, _, err := Update("parking_operations").
		Set("car_spots", 3).
		Where(squirrel.Eq{"facility_id": 1}).
		ToSql()

	require.NoError(t, err)
	assert.Equal(t, "UPDATE parking_operations SET car_spots = $1 WHERE facility_id = $2", query)
}
