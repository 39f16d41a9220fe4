package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestMembershipFor(t *testing.T) {
	first := primitive.NewObjectID()
	second := primitive.NewObjectID()
	zero, one := 0, 1

	survey := AreaSurvey{
		Collections: []SurveyMembership{
			{CollectionID: first, AreaIndex: &zero, IsPrimary: true},
			{CollectionID: second, AreaIndex: &one},
		},
	}

	record, ok := survey.MembershipFor(second)
	require.True(t, ok)
	assert.Equal(t, 1, *record.AreaIndex)

	// pointer ต้องชี้เข้า slice จริง — แก้ผ่าน record แล้วเห็นใน survey
	record.CollectionRef = "Q-2026-0042"
	assert.Equal(t, "Q-2026-0042", survey.Collections[1].CollectionRef)

	_, ok = survey.MembershipFor(primitive.NewObjectID())
	assert.False(t, ok)
}

func TestHasPrimary(t *testing.T) {
	assert.False(t, (&AreaSurvey{}).HasPrimary())

	survey := AreaSurvey{Collections: []SurveyMembership{{CollectionID: primitive.NewObjectID()}}}
	assert.False(t, survey.HasPrimary())

	survey.Collections[0].IsPrimary = true
	assert.True(t, survey.HasPrimary())
}

func TestCollectionContains(t *testing.T) {
	member := primitive.NewObjectID()
	collection := SurveyCollection{Surveys: []primitive.ObjectID{member}}

	assert.True(t, collection.Contains(member))
	assert.False(t, collection.Contains(primitive.NewObjectID()))
	assert.False(t, (&SurveyCollection{}).Contains(member))
}

func TestPagination(t *testing.T) {
	params := DefaultPagination()
	assert.Equal(t, 1, params.Page)
	assert.Equal(t, 10, params.Limit)
	assert.Equal(t, int64(0), params.GetSkip())

	params.Page = 3
	assert.Equal(t, int64(20), params.GetSkip())

	params.Order = "desc"
	params.SortBy = "createdAt"
	assert.Equal(t, map[string]int{"createdAt": -1}, params.GetSortOrder())

	response := NewPaginatedResponse([]Site{}, 25, params)
	assert.Equal(t, 3, response.TotalPages)
	assert.False(t, response.HasNext)
	assert.True(t, response.HasPrevious)
}
