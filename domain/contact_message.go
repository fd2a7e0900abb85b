package domain

import (
	"fmt"
	"time"
)

const (
	SubjectGeneralInquiry  = "General Inquiry"
	SubjectProductInfo     = "Product Information"
	SubjectOrderStatus     = "Order Status"
	SubjectDeliveryInfo    = "Delivery Information"
	SubjectWarrantyClaim   = "Warranty Claim"
	SubjectCustomFurniture = "Custom Furniture"
	SubjectFeedback        = "Feedback"
)

func IsContactSubject(s string) bool {
	switch s {
	case SubjectGeneralInquiry, SubjectProductInfo, SubjectOrderStatus, SubjectDeliveryInfo,
		SubjectWarrantyClaim, SubjectCustomFurniture, SubjectFeedback:
		return true
	}
	return false
}

type ContactMessage struct {
	ID        string    `json:"id" db:"id"`
	FullName  string    `json:"full_name" db:"full_name"`
	Email     string    `json:"email" db:"email"`
	Phone     *string   `json:"phone" db:"phone"`
	Subject   string    `json:"subject" db:"subject"`
	Message   string    `json:"message" db:"message"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type ContactMessagePatch struct {
	FullName Optional[string] `json:"full_name"`
	Email    Optional[string] `json:"email"`
	Phone    Optional[string] `json:"phone"`
	Subject  Optional[string] `json:"subject"`
	Message  Optional[string] `json:"message"`
}

func (p ContactMessagePatch) Assignments() ([]Assignment, error) {
	var a assignments
	if err := a.required("full_name", p.FullName); err != nil {
		return nil, err
	}
	if err := checkEmail("email", p.Email); err != nil {
		return nil, err
	}
	if err := a.required("email", p.Email); err != nil {
		return nil, err
	}
	a.nullable("phone", p.Phone)
	if p.Subject.Set && !p.Subject.Null && !IsContactSubject(p.Subject.Value) {
		return nil, fmt.Errorf("%w: unknown subject %q", ErrInvalidArgument, p.Subject.Value)
	}
	if err := a.required("subject", p.Subject); err != nil {
		return nil, err
	}
	if err := a.required("message", p.Message); err != nil {
		return nil, err
	}
	return a, nil
}
