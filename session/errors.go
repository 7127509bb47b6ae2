package session

import "errors"

var (
	// ErrInvalidUserID is returned when a user_id is empty, not a string,
	// or matches a known placeholder/test marker outside test mode.
	ErrInvalidUserID = errors.New("session: invalid user_id")

	// ErrFactoryNotFound is returned when no factory is registered for a
	// requested agent type.
	ErrFactoryNotFound = errors.New("session: no factory registered for agent type")

	// ErrInvalidFactoryRegistration is returned by RegisterFactory when
	// called with an empty agent type or a nil factory.
	ErrInvalidFactoryRegistration = errors.New("session: invalid factory registration")

	// ErrAgentTypeAlreadyRegistered is returned by RegisterFactory for a
	// duplicate agent type.
	ErrAgentTypeAlreadyRegistered = errors.New("session: agent type already registered")

	// ErrNoDispatcherFactory is returned by CreateToolDispatcherForUser
	// when the registry was built without one.
	ErrNoDispatcherFactory = errors.New("session: no tool dispatcher factory configured")
)
