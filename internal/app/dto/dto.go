package dto

// ============ Общие структуры ============

// APIResponse - конверт всех ответов API, который ожидает админ-панель
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ============ Категории ============

type CategoryResponse struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

// ============ Подкатегории ============

type SubCategoryResponse struct {
	ID        string  `json:"_id"`
	Name      string  `json:"name"`
	Image     string  `json:"image"`
	BasePrice float64 `json:"basePrice"`
	BaseArea  float64 `json:"baseArea"`
}

type CreateSubCategoryRequest struct {
	Name      string  `json:"name" binding:"required,min=1,max=100"`
	BasePrice float64 `json:"basePrice" binding:"required,gte=0"`
	BaseArea  float64 `json:"baseArea" binding:"required,gt=0"`
}

type UpdateSubCategoryRequest struct {
	Name      string   `json:"name" binding:"omitempty,min=1,max=100"`
	BasePrice *float64 `json:"basePrice" binding:"omitempty,gte=0"`
	BaseArea  *float64 `json:"baseArea" binding:"omitempty,gt=0"`
}

// ============ Пользователи ============

type UserResponse struct {
	ID       uint   `json:"id"`
	Login    string `json:"login"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type CreateAdminRequest struct {
	Login    string `json:"login" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required,min=6"`
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email" binding:"omitempty,email"`
	Role     int    `json:"role" binding:"gte=0,lte=1"`
}
