package domain

type RecyclablesCategory struct {
	ID   int64
	Name string
}

type Recyclables struct {
	ID       int64
	Name     string
	Category RecyclablesCategory
}
