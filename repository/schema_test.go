package repository_test

import (
	"fmt"
	"sort"
	"strings"
	"testing"

	"taskboard/testutil"
)

type foreignKey struct {
	Table    string `gorm:"column:table"`
	From     string `gorm:"column:from"`
	To       string `gorm:"column:to"`
	OnDelete string `gorm:"column:on_delete"`
}

func TestForeignKeysPointFromChildToParent(t *testing.T) {
	db := testutil.OpenDB(t)

	want := map[string][]string{
		"user":          nil,
		"board":         {"owner_id->user.user_id"},
		"status":        {"board_id->board.board_id CASCADE"},
		"tasks":         {"board_id->board.board_id CASCADE", "status_id->status.status_id"},
		"collaborator":  {"board_id->board.board_id CASCADE"},
		"pending_grant": {"board_id->board.board_id CASCADE"},
	}
	for table, keys := range want {
		var rows []foreignKey
		if err := db.Raw(fmt.Sprintf("PRAGMA foreign_key_list(`%s`)", table)).Scan(&rows).Error; err != nil {
			t.Fatalf("foreign keys of %s: %v", table, err)
		}
		got := make([]string, 0, len(rows))
		for _, fk := range rows {
			key := fmt.Sprintf("%s->%s.%s", fk.From, fk.Table, fk.To)
			if fk.OnDelete == "CASCADE" {
				key += " CASCADE"
			}
			got = append(got, key)
		}
		sort.Strings(got)
		if strings.Join(got, ", ") != strings.Join(keys, ", ") {
			t.Errorf("%s foreign keys = [%s], want [%s]", table, strings.Join(got, ", "), strings.Join(keys, ", "))
		}
	}
}

func TestBoardInsertSatisfiesForeignKeys(t *testing.T) {
	db := testutil.OpenDB(t)
	owner := testutil.CreateUser(t, db, "Olivia", "olivia@example.com")
	board := testutil.CreateBoard(t, db, owner, "Roadmap")

	statusID := testutil.StatusID(t, db, board.BoardID, "No Status")
	testutil.CreateTask(t, db, board.BoardID, statusID, "Draft")

	var violations []map[string]any
	if err := db.Raw("PRAGMA foreign_key_check").Scan(&violations).Error; err != nil {
		t.Fatalf("foreign_key_check: %v", err)
	}
	if len(violations) != 0 {
		t.Fatalf("foreign key violations: %v", violations)
	}
}
