package repository

import (
	"fmt"
	"sort"

	ledgererrors "hotelledger/internal/ledger/errors"
	"hotelledger/pkg/model"
)

type RoomRepository interface {
	Create(room *model.Room) error
	FindByID(id int) (*model.Room, error)
	Update(room *model.Room) error
	FindAll() []*model.Room
	Count() int
}

type memoryRoomRepository struct {
	rooms map[int]model.Room
}

func NewMemoryRoomRepository() RoomRepository {
	return &memoryRoomRepository{rooms: make(map[int]model.Room)}
}

func (r *memoryRoomRepository) Create(room *model.Room) error {
	if _, exists := r.rooms[room.ID]; exists {
		return fmt.Errorf("room %d: %w", room.ID, ledgererrors.ErrDuplicateID)
	}
	r.rooms[room.ID] = *room
	return nil
}

func (r *memoryRoomRepository) FindByID(id int) (*model.Room, error) {
	room, ok := r.rooms[id]
	if !ok {
		return nil, ledgererrors.ErrRoomNotFound
	}
	return &room, nil
}

func (r *memoryRoomRepository) Update(room *model.Room) error {
	if _, ok := r.rooms[room.ID]; !ok {
		return ledgererrors.ErrRoomNotFound
	}
	r.rooms[room.ID] = *room
	return nil
}

// FindAll returns copies of every room ordered by id.
func (r *memoryRoomRepository) FindAll() []*model.Room {
	result := make([]*model.Room, 0, len(r.rooms))
	for _, room := range r.rooms {
		result = append(result, &room)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

func (r *memoryRoomRepository) Count() int {
	return len(r.rooms)
}
