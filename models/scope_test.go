package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestResolveScope(t *testing.T) {

	groupID := uuid.New()
	grouped := User{ID: uuid.New(), GroupID: &groupID}
	scope := ResolveScope(grouped)
	assert.True(t, scope.IsGroup())
	assert.Equal(t, groupID, *scope.GroupID)
	assert.Nil(t, scope.OwnerID)
	assert.Equal(t, groupID.String(), scope.Key())

	solo := User{ID: uuid.New(), Solo: true}
	scope = ResolveScope(solo)
	assert.False(t, scope.IsGroup())
	assert.Equal(t, solo.ID, *scope.OwnerID)
	assert.Nil(t, scope.GroupID)
	assert.Equal(t, solo.ID.String(), scope.Key())

	// An unconfigured user still resolves to their own solo scope
	fresh := User{ID: uuid.New()}
	assert.True(t, fresh.NeedsSetup())
	scope = ResolveScope(fresh)
	assert.Equal(t, fresh.ID, *scope.OwnerID)
}

func TestScopeContains(t *testing.T) {

	groupID := uuid.New()
	otherGroup := uuid.New()
	userID := uuid.New()

	groupScope := Scope{GroupID: &groupID}
	soloScope := Scope{OwnerID: &userID}

	groupTask := Task{ID: uuid.New(), GroupID: &groupID}
	foreignTask := Task{ID: uuid.New(), GroupID: &otherGroup}
	soloTask := Task{ID: uuid.New(), OwnerID: &userID}

	assert.True(t, groupScope.Contains(groupTask))
	assert.False(t, groupScope.Contains(foreignTask))
	assert.False(t, groupScope.Contains(soloTask))

	assert.True(t, soloScope.Contains(soloTask))
	assert.False(t, soloScope.Contains(groupTask))
}
