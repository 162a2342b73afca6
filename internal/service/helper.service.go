package service

import (
	"github.com/watchalong/server/pkg/wsconn"
)

// getConnsFromMemberIds resolves member ids to their live connections. Members
// whose connection is already gone are skipped; their departure is handled by
// their own disconnect flow.
func (s service) getConnsFromMemberIds(roomId string, memberIds []string) []*wsconn.Conn {
	conns := make([]*wsconn.Conn, 0, len(memberIds))
	for _, memberId := range memberIds {
		conn, err := s.connRepo.GetConn(roomId, memberId)
		if err != nil {
			continue
		}
		conns = append(conns, conn)
	}

	return conns
}
