package social

import (
	"gorm.io/gorm"

	"github.com/yungbote/foodgram-backend/internal/platform/dbctx"
	"github.com/yungbote/foodgram-backend/internal/platform/logger"
)

// membership is the shared implementation behind tables that link a user to a target
// (recipe or author) at most once.
type membership struct {
	db        *gorm.DB
	log       *logger.Logger
	table     string
	targetCol string
	newRow    func(userID, targetID uint) any
}

func (m *membership) add(dbc dbctx.Context, userID, targetID uint) error {
	return dbc.Pick(m.db).Create(m.newRow(userID, targetID)).Error
}

func (m *membership) remove(dbc dbctx.Context, userID, targetID uint) (int64, error) {
	res := dbc.Pick(m.db).
		Exec("DELETE FROM "+m.table+" WHERE user_id = ? AND "+m.targetCol+" = ?", userID, targetID)
	return res.RowsAffected, res.Error
}

func (m *membership) exists(dbc dbctx.Context, userID, targetID uint) (bool, error) {
	var count int64
	if err := dbc.Pick(m.db).
		Table(m.table).
		Where("user_id = ? AND "+m.targetCol+" = ?", userID, targetID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// targetsFor returns which of targetIDs the user is linked to.
func (m *membership) targetsFor(dbc dbctx.Context, userID uint, targetIDs []uint) (map[uint]bool, error) {
	out := make(map[uint]bool, len(targetIDs))
	if userID == 0 || len(targetIDs) == 0 {
		return out, nil
	}
	var ids []uint
	if err := dbc.Pick(m.db).
		Table(m.table).
		Where("user_id = ? AND "+m.targetCol+" IN ?", userID, targetIDs).
		Pluck(m.targetCol, &ids).Error; err != nil {
		return nil, err
	}
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}
