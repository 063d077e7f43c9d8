package store

// GreetingForHour maps a wall-clock hour (0–23) to the dashboard greeting.
func GreetingForHour(h int) string {
	switch {
	case h >= 5 && h < 11:
		return "早安"
	case h >= 11 && h < 14:
		return "午安"
	case h >= 14 && h < 18:
		return "下午好"
	case h >= 18 && h < 22:
		return "晚上好"
	default:
		return "晚安"
	}
}

// CalcGreeting returns the greeting for the store clock's current hour.
func (s *Store) CalcGreeting() string {
	return GreetingForHour(s.now().Hour())
}

func (s *Store) UpdateGreeting() {
	g := s.CalcGreeting()
	s.mutate(ActionUpdateGreeting, func(st *State) { st.Greeting = g })
}
