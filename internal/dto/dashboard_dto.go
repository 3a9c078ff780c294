package dto

// LatestExecution 任务最近一次执行的摘要
type LatestExecution struct {
	Status     string `json:"status"`
	TesterName string `json:"testerName"`
}

// DashboardItem 仪表盘中的一个任务
type DashboardItem struct {
	ID              uint             `json:"id"`
	UnitTestLabel   string           `json:"unitTestLabel"`
	Tags            []string         `json:"tags"`
	LatestExecution *LatestExecution `json:"latestExecution"`
}

// DashboardSummary 汇总计数
type DashboardSummary struct {
	TotalTasks  int `json:"totalTasks"`
	Passed      int `json:"passed"`
	Failed      int `json:"failed"`
	NotExecuted int `json:"notExecuted"`
}

// DashboardResponse 仪表盘
type DashboardResponse struct {
	Tasks   []DashboardItem  `json:"tasks"`
	Summary DashboardSummary `json:"summary"`
}
