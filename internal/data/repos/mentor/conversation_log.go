package mentor

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/hummingbird-backend/internal/domain"
	"github.com/yungbote/hummingbird-backend/internal/platform/dbctx"
	"github.com/yungbote/hummingbird-backend/internal/platform/logger"
)

// Turn holds the columns rewritten on every continuation of a block.
type Turn struct {
	Prompt     string
	Response   string
	Messages   datatypes.JSON
	TokensUsed *int
}

type ConversationLogRepo interface {
	Create(dbc dbctx.Context, row *types.ConversationLog) (*types.ConversationLog, error)
	LatestByBlockID(dbc dbctx.Context, blockID uuid.UUID) (*types.ConversationLog, error)
	UpdateByBlockID(dbc dbctx.Context, blockID uuid.UUID, turn Turn) (int64, error)
}

type conversationLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewConversationLogRepo(db *gorm.DB, baseLog *logger.Logger) ConversationLogRepo {
	return &conversationLogRepo{db: db, log: baseLog.With("repo", "ConversationLogRepo")}
}

func (r *conversationLogRepo) Create(dbc dbctx.Context, row *types.ConversationLog) (*types.ConversationLog, error) {
	if row == nil {
		return nil, fmt.Errorf("missing row")
	}
	if row.BlockID == uuid.Nil {
		return nil, fmt.Errorf("missing block_id")
	}
	now := time.Now().UTC()
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = now
	}
	row.UpdatedAt = now
	if len(row.PhaseContext) == 0 {
		row.PhaseContext = datatypes.JSON([]byte("{}"))
	}
	if len(row.Messages) == 0 {
		row.Messages = datatypes.JSON([]byte("[]"))
	}
	if err := dbc.DB(r.db).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *conversationLogRepo) LatestByBlockID(dbc dbctx.Context, blockID uuid.UUID) (*types.ConversationLog, error) {
	if blockID == uuid.Nil {
		return nil, nil
	}
	var rows []*types.ConversationLog
	if err := dbc.DB(r.db).
		Where("block_id = ?", blockID).
		Order("updated_at DESC").
		Order("created_at DESC").
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// UpdateByBlockID rewrites every row of the block and reports how many were touched.
func (r *conversationLogRepo) UpdateByBlockID(dbc dbctx.Context, blockID uuid.UUID, turn Turn) (int64, error) {
	if blockID == uuid.Nil {
		return 0, fmt.Errorf("missing block_id")
	}
	messages := turn.Messages
	if len(messages) == 0 {
		messages = datatypes.JSON([]byte("[]"))
	}
	res := dbc.DB(r.db).
		Model(&types.ConversationLog{}).
		Where("block_id = ?", blockID).
		Updates(map[string]interface{}{
			"prompt":      turn.Prompt,
			"response":    turn.Response,
			"messages":    messages,
			"tokens_used": turn.TokensUsed,
			"updated_at":  time.Now().UTC(),
		})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
