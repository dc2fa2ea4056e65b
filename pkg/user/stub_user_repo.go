package user

import "context"

type RepositoryStub struct {
	nextId int
	users  map[string]User
}

func NewStubUserRepo() *RepositoryStub {
	return &RepositoryStub{users: map[string]User{}}
}

func (s *RepositoryStub) Store(ctx context.Context, u User) (int, error) {
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return 0, ErrEmailTaken
		}
	}
	s.nextId++
	u.Id = s.nextId
	s.users[u.Uid] = u
	return u.Id, nil
}

func (s *RepositoryStub) GetByUid(ctx context.Context, uid string) (User, error) {
	if u, ok := s.users[uid]; ok {
		return u, nil
	}
	return User{}, ErrUserNotFound
}

func (s *RepositoryStub) GetByEmail(ctx context.Context, email string) (User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return User{}, ErrUserNotFound
}

func (s *RepositoryStub) List(ctx context.Context) ([]User, error) {
	users := make([]User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}
	return users, nil
}

func (s *RepositoryStub) Delete(ctx context.Context, uid string) (bool, error) {
	if _, ok := s.users[uid]; ok {
		delete(s.users, uid)
		return true, nil
	}
	return false, nil
}

func (s *RepositoryStub) Cleanup() {
	s.users = map[string]User{}
	s.nextId = 0
}
