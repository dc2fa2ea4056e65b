package household

import "context"

type RepositoryStub struct {
	nextId     int
	households map[int]Household
	members    map[int][]int // householdId -> userIds
}

func NewStubHouseholdRepo() *RepositoryStub {
	return &RepositoryStub{households: map[int]Household{}, members: map[int][]int{}}
}

func (s *RepositoryStub) Store(ctx context.Context, h Household, memberUserId int) (Household, error) {
	s.nextId++
	h.Id = s.nextId
	s.households[h.Id] = h
	s.members[h.Id] = []int{memberUserId}
	return h, nil
}

func (s *RepositoryStub) FindFirstForUser(ctx context.Context, userId int) (Household, error) {
	for id := 1; id <= s.nextId; id++ {
		for _, member := range s.members[id] {
			if member == userId {
				return s.households[id], nil
			}
		}
	}
	return Household{}, ErrNoHousehold
}

func (s *RepositoryStub) GetById(ctx context.Context, householdId int) (Household, error) {
	if h, ok := s.households[householdId]; ok {
		return h, nil
	}
	return Household{}, ErrNoHousehold
}

func (s *RepositoryStub) AddMember(ctx context.Context, householdId int, userId int) error {
	for _, member := range s.members[householdId] {
		if member == userId {
			return nil
		}
	}
	s.members[householdId] = append(s.members[householdId], userId)
	return nil
}

func (s *RepositoryStub) ListAll(ctx context.Context) ([]Household, error) {
	households := make([]Household, 0, len(s.households))
	for id := 1; id <= s.nextId; id++ {
		if h, ok := s.households[id]; ok {
			households = append(households, h)
		}
	}
	return households, nil
}

func (s *RepositoryStub) Cleanup() {
	s.households = map[int]Household{}
	s.members = map[int][]int{}
	s.nextId = 0
}
