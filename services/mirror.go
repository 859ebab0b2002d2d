package services

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"taskboard/model"
)

// FirestoreMirror keeps Boards/{boardId}/BoardUsers/{userId} in step with the
// collaborator table so mobile clients can listen for membership changes.
type FirestoreMirror struct {
	client *firestore.Client
}

func NewFirestoreMirror(client *firestore.Client) *FirestoreMirror {
	return &FirestoreMirror{client: client}
}

func (m *FirestoreMirror) boardUsers(boardID string) *firestore.CollectionRef {
	return m.client.Collection("Boards").Doc(boardID).Collection("BoardUsers")
}

func (m *FirestoreMirror) PutCollaborator(ctx context.Context, collab model.Collaborator) error {
	data := map[string]any{
		"BoardID":     collab.BoardID,
		"UserID":      collab.UserID,
		"Name":        collab.Name,
		"Email":       collab.Email,
		"AccessRight": string(collab.AccessRight),
		"AddedAt":     collab.AddedOn,
		"UpdatedAt":   firestore.ServerTimestamp,
	}
	if _, err := m.boardUsers(collab.BoardID).Doc(collab.UserID).Set(ctx, data); err != nil {
		return fmt.Errorf("set board user: %w", err)
	}
	return nil
}

func (m *FirestoreMirror) DeleteCollaborator(ctx context.Context, boardID, userID string) error {
	if _, err := m.boardUsers(boardID).Doc(userID).Delete(ctx); err != nil && status.Code(err) != codes.NotFound {
		return fmt.Errorf("delete board user: %w", err)
	}
	return nil
}

// DeleteBoard removes the board document and its BoardUsers subcollection.
func (m *FirestoreMirror) DeleteBoard(ctx context.Context, boardID string) error {
	iter := m.boardUsers(boardID).Documents(ctx)
	defer iter.Stop()
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return fmt.Errorf("list board users: %w", err)
		}
		if _, err := doc.Ref.Delete(ctx); err != nil {
			return fmt.Errorf("delete board user %s: %w", doc.Ref.ID, err)
		}
	}
	if _, err := m.client.Collection("Boards").Doc(boardID).Delete(ctx); err != nil && status.Code(err) != codes.NotFound {
		return fmt.Errorf("delete board: %w", err)
	}
	return nil
}

// NopMirror is used when Firebase is not configured.
type NopMirror struct{}

func (NopMirror) PutCollaborator(context.Context, model.Collaborator) error { return nil }
func (NopMirror) DeleteCollaborator(context.Context, string, string) error  { return nil }
func (NopMirror) DeleteBoard(context.Context, string) error                 { return nil }
