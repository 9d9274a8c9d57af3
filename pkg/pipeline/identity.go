package pipeline

import (
	"encoding/binary"

	"github.com/google/uuid"
	"github.com/shouni/go-ehon-kit/pkg/domain"
	"github.com/shouni/go-ehon-kit/pkg/prompts"
)

// ConsistencyKeyFromID はリクエスト ID から正の 31 bit のシードを導きます。
// 同じ ID からは常に同じ値になります。
func ConsistencyKeyFromID(requestID string) int64 {
	u, err := uuid.Parse(requestID)
	if err != nil {
		u = uuid.NewSHA1(uuid.NameSpaceOID, []byte(requestID))
	}
	return int64(binary.BigEndian.Uint32(u[:4]) & 0x7FFFFFFF)
}

// newVisualIdentity はリクエスト内の全挿絵に共通の画風指定を作ります。
func newVisualIdentity(requestID string, req domain.BookRequest, stylePrefix string, consistent bool) domain.VisualIdentity {
	identity := domain.VisualIdentity{
		StylePrefix: stylePrefix,
		SubjectTag:  prompts.SubjectTag(req),
	}
	if consistent {
		key := ConsistencyKeyFromID(requestID)
		identity.ConsistencyKey = &key
	}
	return identity
}
