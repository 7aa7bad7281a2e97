package config

// PatchedStar stores config info for an RGB fixture showing a star
type PatchedStar struct {
	Name     string
	Address  int
	Universe int
}

func PatchStars() []PatchedStar {
	return []PatchedStar{
		// left of the stage
		{
			Name:     "left_star",
			Address:  115,
			Universe: 1,
		},
		// right of the stage
		{
			Name:     "right_star",
			Address:  139,
			Universe: 1,
		},
		// over the audience
		{
			Name:     "top_star",
			Address:  67,
			Universe: 1,
		},
	}
}

// DefaultStarProfile is the palette used unless another is chosen.
const DefaultStarProfile = "nebula"

// StarProfile is the resting and pulse colour of a star, as hex strings.
type StarProfile struct {
	Name string
	Base string
	Peak string
}

func StarProfiles() map[string]StarProfile {
	return map[string]StarProfile{
		"nebula": {
			Name: "Nebula",
			Base: "#1a0f3d",
			Peak: "#b48cff",
		},
		"supernova": {
			Name: "Supernova",
			Base: "#3d0a00",
			Peak: "#ffd27f",
		},
		"pulsar": {
			Name: "Pulsar",
			Base: "#001a26",
			Peak: "#7fffff",
		},
	}
}
