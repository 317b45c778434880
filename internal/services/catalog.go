package services

// Catalog is the fixed set of business models the quiz scores against.
// Declaration order is the tie-break order for equal fit scores.
var Catalog = []BusinessModel{
	{
		ID:      "content-creation",
		Name:    "Content Creation / UGC",
		Summary: "Build an audience by publishing short-form and long-form content, then monetize through brand deals, ad revenue and UGC contracts.",
		Targets: []DimensionTarget{
			{Dimension: "weeklyTimeCommitment", Weight: 1.0, Low: 3, High: 5},
			{Dimension: "selfMotivationLevel", Weight: 1.0, Low: 4, High: 5},
			{Dimension: "creativeWorkEnjoyment", Weight: 1.5, Low: 4, High: 5},
			{Dimension: "brandFaceComfort", Weight: 1.5, Low: 4, High: 5},
			{Dimension: "socialMediaInterest", Weight: 1.5, Low: 4, High: 5},
			{Dimension: "longTermConsistency", Weight: 1.0, Low: 4, High: 5},
			{Dimension: "upfrontInvestment", Weight: 0.5, Low: 1, High: 3},
			{Dimension: "mainMotivation", Weight: 1.0, Ideal: []string{"creative-outlet"}, Near: []string{"side-income", "passive-income"}},
			{Dimension: "platformsUsed", Weight: 1.0, Ideal: []string{"instagram", "tiktok", "youtube"}},
		},
	},
	{
		ID:      "freelancing",
		Name:    "Freelancing",
		Summary: "Sell an existing skill directly to clients on a per-project basis; fastest path to revenue with near-zero startup cost.",
		Targets: []DimensionTarget{
			{Dimension: "weeklyTimeCommitment", Weight: 1.0, Low: 2, High: 5},
			{Dimension: "techSkillsRating", Weight: 1.0, Low: 3, High: 5},
			{Dimension: "directCommunicationEnjoyment", Weight: 1.5, Low: 3, High: 5},
			{Dimension: "organizationLevel", Weight: 1.0, Low: 3, High: 5},
			{Dimension: "upfrontInvestment", Weight: 1.0, Low: 1, High: 2},
			{Dimension: "passiveIncomePreference", Weight: 1.0, Low: 1, High: 3},
			{Dimension: "salesComfort", Weight: 1.0, Low: 3, High: 5},
			{Dimension: "mainMotivation", Weight: 1.0, Ideal: []string{"side-income", "career-change"}, Near: []string{"financial-freedom"}},
			{Dimension: "collaborationPreference", Weight: 0.5, Ideal: []string{"solo"}, Near: []string{"small-team"}},
		},
	},
	{
		ID:      "affiliate-marketing",
		Name:    "Affiliate Marketing",
		Summary: "Recommend other companies' products through content and earn commission on every sale; slow to start, compounding once ranked.",
		Targets: []DimensionTarget{
			{Dimension: "weeklyTimeCommitment", Weight: 1.0, Low: 2, High: 4},
			{Dimension: "riskComfortLevel", Weight: 0.5, Low: 2, High: 4},
			{Dimension: "selfMotivationLevel", Weight: 1.0, Low: 4, High: 5},
			{Dimension: "longTermConsistency", Weight: 1.5, Low: 4, High: 5},
			{Dimension: "passiveIncomePreference", Weight: 1.5, Low: 4, High: 5},
			{Dimension: "writingEnjoyment", Weight: 1.0, Low: 3, High: 5},
			{Dimension: "analyticalThinking", Weight: 1.0, Low: 3, High: 5},
			{Dimension: "mainMotivation", Weight: 1.0, Ideal: []string{"passive-income"}, Near: []string{"financial-freedom", "side-income"}},
			{Dimension: "platformsUsed", Weight: 0.5, Ideal: []string{"youtube", "twitter"}},
		},
	},
	{
		ID:      "e-commerce",
		Name:    "E-commerce / Dropshipping",
		Summary: "Source or dropship physical products and sell through your own storefront; capital and ad spend buy speed.",
		Targets: []DimensionTarget{
			{Dimension: "weeklyTimeCommitment", Weight: 1.0, Low: 3, High: 5},
			{Dimension: "riskComfortLevel", Weight: 1.5, Low: 3, High: 5},
			{Dimension: "upfrontInvestment", Weight: 1.5, Low: 3, High: 5},
			{Dimension: "organizationLevel", Weight: 1.0, Low: 3, High: 5},
			{Dimension: "analyticalThinking", Weight: 1.0, Low: 3, High: 5},
			{Dimension: "salesComfort", Weight: 1.0, Low: 3, High: 5},
			{Dimension: "mainMotivation", Weight: 1.0, Ideal: []string{"financial-freedom"}, Near: []string{"passive-income"}},
			{Dimension: "workStructurePreference", Weight: 0.5, Ideal: []string{"flexible-framework", "full-autonomy"}},
		},
	},
	{
		ID:      "saas-development",
		Name:    "SaaS / App Development",
		Summary: "Build and run a small software product with recurring subscription revenue; highest ceiling, longest runway.",
		Targets: []DimensionTarget{
			{Dimension: "weeklyTimeCommitment", Weight: 1.0, Low: 4, High: 5},
			{Dimension: "techSkillsRating", Weight: 2.0, Low: 4, High: 5},
			{Dimension: "riskComfortLevel", Weight: 1.0, Low: 3, High: 5},
			{Dimension: "selfMotivationLevel", Weight: 1.0, Low: 4, High: 5},
			{Dimension: "longTermConsistency", Weight: 1.0, Low: 4, High: 5},
			{Dimension: "analyticalThinking", Weight: 1.5, Low: 4, High: 5},
			{Dimension: "passiveIncomePreference", Weight: 0.5, Low: 3, High: 5},
			{Dimension: "learningPreference", Weight: 1.0, Ideal: []string{"hands-on"}, Near: []string{"reading-research"}},
			{Dimension: "workStructurePreference", Weight: 0.5, Ideal: []string{"full-autonomy"}, Near: []string{"flexible-framework"}},
		},
	},
	{
		ID:      "online-coaching",
		Name:    "Online Coaching & Consulting",
		Summary: "Package expertise into 1:1 or group coaching delivered over video calls; income scales with your calendar and rates.",
		Targets: []DimensionTarget{
			{Dimension: "directCommunicationEnjoyment", Weight: 2.0, Low: 4, High: 5},
			{Dimension: "brandFaceComfort", Weight: 1.5, Low: 4, High: 5},
			{Dimension: "organizationLevel", Weight: 1.0, Low: 3, High: 5},
			{Dimension: "salesComfort", Weight: 1.0, Low: 3, High: 5},
			{Dimension: "weeklyTimeCommitment", Weight: 1.0, Low: 2, High: 4},
			{Dimension: "upfrontInvestment", Weight: 0.5, Low: 1, High: 2},
			{Dimension: "mainMotivation", Weight: 1.0, Ideal: []string{"career-change"}, Near: []string{"side-income", "financial-freedom"}},
			{Dimension: "collaborationPreference", Weight: 0.5, Ideal: []string{"small-team", "community"}, Near: []string{"solo"}},
		},
	},
	{
		ID:      "print-on-demand",
		Name:    "Print on Demand",
		Summary: "Upload designs to print-on-demand marketplaces that handle production and shipping; low effort per sale, volume game.",
		Targets: []DimensionTarget{
			{Dimension: "creativeWorkEnjoyment", Weight: 1.5, Low: 4, High: 5},
			{Dimension: "weeklyTimeCommitment", Weight: 1.0, Low: 1, High: 3},
			{Dimension: "upfrontInvestment", Weight: 1.0, Low: 1, High: 2},
			{Dimension: "riskComfortLevel", Weight: 1.0, Low: 1, High: 3},
			{Dimension: "passiveIncomePreference", Weight: 1.0, Low: 3, High: 5},
			{Dimension: "socialMediaInterest", Weight: 0.5, Low: 3, High: 5},
			{Dimension: "mainMotivation", Weight: 1.0, Ideal: []string{"side-income", "passive-income"}, Near: []string{"creative-outlet"}},
		},
	},
	{
		ID:      "virtual-assistant",
		Name:    "Virtual Assistant Services",
		Summary: "Provide remote administrative and operations support to founders and small teams; steady hourly or retainer income.",
		Targets: []DimensionTarget{
			{Dimension: "organizationLevel", Weight: 2.0, Low: 4, High: 5},
			{Dimension: "directCommunicationEnjoyment", Weight: 1.0, Low: 3, High: 5},
			{Dimension: "weeklyTimeCommitment", Weight: 1.0, Low: 2, High: 4},
			{Dimension: "upfrontInvestment", Weight: 1.0, Low: 1, High: 1},
			{Dimension: "riskComfortLevel", Weight: 1.0, Low: 1, High: 3},
			{Dimension: "techSkillsRating", Weight: 0.5, Low: 2, High: 4},
			{Dimension: "mainMotivation", Weight: 1.0, Ideal: []string{"side-income"}, Near: []string{"career-change"}},
			{Dimension: "workStructurePreference", Weight: 1.0, Ideal: []string{"clear-steps"}, Near: []string{"flexible-framework"}},
		},
	},
	{
		ID:      "digital-courses",
		Name:    "Digital Courses",
		Summary: "Record a course once and sell it repeatedly through your own funnel or marketplaces; front-loaded effort, durable margins.",
		Targets: []DimensionTarget{
			{Dimension: "writingEnjoyment", Weight: 1.0, Low: 4, High: 5},
			{Dimension: "organizationLevel", Weight: 1.0, Low: 3, High: 5},
			{Dimension: "brandFaceComfort", Weight: 1.0, Low: 3, High: 5},
			{Dimension: "passiveIncomePreference", Weight: 1.5, Low: 4, High: 5},
			{Dimension: "longTermConsistency", Weight: 1.0, Low: 3, High: 5},
			{Dimension: "weeklyTimeCommitment", Weight: 1.0, Low: 3, High: 5},
			{Dimension: "learningPreference", Weight: 1.0, Ideal: []string{"structured-courses"}, Near: []string{"reading-research"}},
			{Dimension: "mainMotivation", Weight: 1.0, Ideal: []string{"passive-income"}, Near: []string{"creative-outlet", "side-income"}},
		},
	},
	{
		ID:      "social-media-agency",
		Name:    "Social Media Marketing Agency",
		Summary: "Run content and paid social for local businesses on monthly retainers; client acquisition is the hard part, delivery scales with a small team.",
		Targets: []DimensionTarget{
			{Dimension: "socialMediaInterest", Weight: 2.0, Low: 4, High: 5},
			{Dimension: "directCommunicationEnjoyment", Weight: 1.0, Low: 4, High: 5},
			{Dimension: "salesComfort", Weight: 1.5, Low: 4, High: 5},
			{Dimension: "organizationLevel", Weight: 1.0, Low: 3, High: 5},
			{Dimension: "weeklyTimeCommitment", Weight: 1.0, Low: 3, High: 5},
			{Dimension: "analyticalThinking", Weight: 0.5, Low: 3, High: 5},
			{Dimension: "collaborationPreference", Weight: 1.0, Ideal: []string{"small-team"}, Near: []string{"solo", "community"}},
			{Dimension: "platformsUsed", Weight: 1.0, Ideal: []string{"instagram", "tiktok", "linkedin"}},
		},
	},
}

var catalogByID = func() map[string]*BusinessModel {
	m := make(map[string]*BusinessModel, len(Catalog))
	for i := range Catalog {
		m[Catalog[i].ID] = &Catalog[i]
	}
	return m
}()

// CatalogModel looks up a catalog entry by id.
func CatalogModel(id string) *BusinessModel {
	return catalogByID[id]
}
