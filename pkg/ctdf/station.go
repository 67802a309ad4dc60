package ctdf

type Station struct {
	Crs      string    `groups:"basic"`
	Name     string    `groups:"basic"`
	Location *Location `groups:"basic"`
}

func (s *Station) JourneyPlanLocation() JourneyPlanLocation {
	return JourneyPlanLocation{
		Name:     s.Name,
		Crs:      s.Crs,
		Location: s.Location,
	}
}
