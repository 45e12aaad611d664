package fhe

// Operations lists the supported operations and their gas costs.
func (s *Service) Operations() []OperationInfo {
	return []OperationInfo{
		{Name: OpAdd, Description: "Add encrypted numbers", GasCost: operationCosts[OpAdd]},
		{Name: OpMultiply, Description: "Multiply encrypted numbers", GasCost: operationCosts[OpMultiply]},
		{Name: OpCompare, Description: "Compare encrypted values", GasCost: operationCosts[OpCompare]},
		{Name: OpMax, Description: "Find maximum of encrypted values", GasCost: operationCosts[OpMax]},
		{Name: OpAverage, Description: "Calculate average of encrypted values", GasCost: operationCosts[OpAverage]},
		{Name: OpVote, Description: "Aggregate encrypted votes", GasCost: operationCosts[OpVote]},
	}
}

// DemoScenarios returns the fixed catalog of illustrative computations.
func (s *Service) DemoScenarios() []DemoScenario {
	return []DemoScenario{
		{
			Name:        "Private Voting",
			Description: "Count votes without revealing individual choices",
			Operation:   OpAdd,
			DemoData: []DemoValue{
				{Value: 1, Label: "Vote for Proposal A"},
				{Value: 1, Label: "Vote for Proposal A"},
				{Value: 0, Label: "Vote against Proposal A"},
				{Value: 1, Label: "Vote for Proposal A"},
			},
			ExpectedResult: "3 votes for, 1 against (without revealing individual votes)",
		},
		{
			Name:        "Private Salary Comparison",
			Description: "Compare salaries without revealing actual amounts",
			Operation:   OpCompare,
			DemoData: []DemoValue{
				{Value: 85000, Label: "Employee A Salary"},
				{Value: 92000, Label: "Employee B Salary"},
			},
			ExpectedResult: "Employee B earns more (without revealing actual salaries)",
		},
		{
			Name:        "Confidential Auction",
			Description: "Find highest bid without revealing bid amounts",
			Operation:   OpMax,
			DemoData: []DemoValue{
				{Value: 1500, Label: "Bidder 1"},
				{Value: 2200, Label: "Bidder 2"},
				{Value: 1800, Label: "Bidder 3"},
				{Value: 2100, Label: "Bidder 4"},
			},
			ExpectedResult: "Bidder 2 wins (without revealing bid amounts)",
		},
		{
			Name:        "Private Portfolio Average",
			Description: "Calculate average portfolio value across multiple investors",
			Operation:   OpAverage,
			DemoData: []DemoValue{
				{Value: 150000, Label: "Investor A Portfolio"},
				{Value: 230000, Label: "Investor B Portfolio"},
				{Value: 180000, Label: "Investor C Portfolio"},
			},
			ExpectedResult: "Average portfolio value (without revealing individual amounts)",
		},
	}
}
