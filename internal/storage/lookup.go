package storage

// TeamMember: сотрудник, которого можно назначить ответственным инженером.
type TeamMember struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Project: проект, из которого заполняются данные заказчика.
type Project struct {
	ID          int64  `json:"id"`
	Client      string `json:"client"`
	Location    string `json:"location"`
	ProjectName string `json:"project_name"`
}
