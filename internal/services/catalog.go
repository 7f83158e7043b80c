package services

import "slices"

var networks = []string{"mtn", "glo", "airtel", "9mobile"}

type DataPlan struct {
	ID       string `json:"id"`
	Size     string `json:"size"`
	Price    int64  `json:"price"`
	Validity string `json:"validity"`
}

var dataPlans = []DataPlan{
	{ID: "500mb", Size: "500MB", Price: 500, Validity: "30 days"},
	{ID: "1gb", Size: "1GB", Price: 1000, Validity: "30 days"},
	{ID: "2gb", Size: "2GB", Price: 1800, Validity: "30 days"},
	{ID: "5gb", Size: "5GB", Price: 4000, Validity: "30 days"},
	{ID: "10gb", Size: "10GB", Price: 7500, Validity: "30 days"},
	{ID: "20gb", Size: "20GB", Price: 14000, Validity: "30 days"},
}

var billProviders = map[string][]string{
	"electricity": {"ekedc", "ikedc", "aedc", "phed"},
	"cable":       {"dstv", "gotv", "startimes"},
}

var bettingPlatforms = []string{"bet9ja", "sportybet", "betway", "1xbet", "nairabet", "betking"}

var rechargeDenominations = []int64{100, 200, 500, 1000}

const maxRechargeQuantity = 10

func Networks() []string {
	return slices.Clone(networks)
}

func DataPlans() []DataPlan {
	return slices.Clone(dataPlans)
}

func BettingPlatforms() []string {
	return slices.Clone(bettingPlatforms)
}

func findPlan(id string) (DataPlan, bool) {
	for _, plan := range dataPlans {
		if plan.ID == id {
			return plan, true
		}
	}
	return DataPlan{}, false
}

func validNetwork(network string) bool {
	return slices.Contains(networks, network)
}

func validBillProvider(service, provider string) bool {
	return slices.Contains(billProviders[service], provider)
}

func validDenomination(value int64) bool {
	return slices.Contains(rechargeDenominations, value)
}

func validPlatform(platform string) bool {
	return slices.Contains(bettingPlatforms, platform)
}
