package entity

// ContractRef holds the deployment address of a vault token on one chain.
type ContractRef struct {
	ContractAddress string `json:"contractAddress"`
}

// VaultDescriptor is one product vault as reported by the upstream metadata API.
// Descriptors are immutable once fetched; each poll cycle replaces the whole set.
type VaultDescriptor struct {
	VaultStatus   string      `json:"vaultStatus"`
	Slug          string      `json:"slug"`
	Name          string      `json:"name"`
	Description   string      `json:"description"`
	TVL           float64     `json:"tvl"`
	FormattedTVL  string      `json:"formattedTvl"`
	APY           float64     `json:"apy"`
	FormattedAPY  string      `json:"formattedApy"`
	Price         float64     `json:"price"`
	Ethereum      ContractRef `json:"ethereum"`
	Plume         ContractRef `json:"plume"`
}

// VaultAddressPair holds the resolved token contract addresses of the two
// tracked vaults. An empty field means the matching descriptor was not found
// in the latest metadata snapshot.
type VaultAddressPair struct {
	Alpha    string `json:"alphaAddress"`
	Treasury string `json:"treasuryAddress"`
}

// Complete reports whether both vault addresses are resolved.
func (p VaultAddressPair) Complete() bool {
	return p.Alpha != "" && p.Treasury != ""
}

// VaultSnapshot is the result of one metadata poll cycle: the matched
// descriptors, the resolved address pair and the fetch outcome.
type VaultSnapshot struct {
	Alpha     *VaultDescriptor
	Treasury  *VaultDescriptor
	Addresses VaultAddressPair
	// Loaded is false until the first fetch attempt has completed.
	Loaded bool
	Err    error
}

// AlphaPrice returns the alpha vault token price in USD, zero when unknown.
func (s VaultSnapshot) AlphaPrice() float64 {
	if s.Alpha == nil {
		return 0
	}
	return s.Alpha.Price
}

// TreasuryPrice returns the treasury vault token price in USD, zero when unknown.
func (s VaultSnapshot) TreasuryPrice() float64 {
	if s.Treasury == nil {
		return 0
	}
	return s.Treasury.Price
}
