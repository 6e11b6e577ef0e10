package services

import (
	"fmt"
	"strings"
)

// OwnerKind tells which identity owns a cart
type OwnerKind int

const (
	OwnerUnknown OwnerKind = iota
	OwnerUser
	OwnerAnonymous
)

// OwnerKey identifies the owner of a cart: either a signed-in user or an
// anonymous cart token, never both.
type OwnerKey struct {
	kind   OwnerKind
	userID uint
	token  string
}

// UserOwner builds the key for a signed-in user
func UserOwner(userID uint) OwnerKey {
	return OwnerKey{kind: OwnerUser, userID: userID}
}

// AnonymousOwner builds the key for a guest cart token
func AnonymousOwner(token string) OwnerKey {
	return OwnerKey{kind: OwnerAnonymous, token: token}
}

// ResolveOwner picks the owner for a request. A user id wins over a cart token.
func ResolveOwner(userID *uint, cartToken string) (OwnerKey, error) {
	if userID != nil && *userID != 0 {
		return UserOwner(*userID), nil
	}
	if token := strings.TrimSpace(cartToken); token != "" {
		return AnonymousOwner(token), nil
	}
	return OwnerKey{}, ErrOwnerRequired
}

func (o OwnerKey) Kind() OwnerKind { return o.kind }

func (o OwnerKey) IsUser() bool { return o.kind == OwnerUser }

func (o OwnerKey) IsAnonymous() bool { return o.kind == OwnerAnonymous }

func (o OwnerKey) IsZero() bool { return o.kind == OwnerUnknown }

// UserID returns the user id and whether the key is a user key
func (o OwnerKey) UserID() (uint, bool) {
	return o.userID, o.kind == OwnerUser
}

// Token returns the cart token of an anonymous key, or ""
func (o OwnerKey) Token() string {
	return o.token
}

// UserIDPtr is the nullable form stored on carts and orders
func (o OwnerKey) UserIDPtr() *uint {
	if o.kind != OwnerUser {
		return nil
	}
	id := o.userID
	return &id
}

// TokenPtr is the nullable form stored on carts and orders
func (o OwnerKey) TokenPtr() *string {
	if o.kind != OwnerAnonymous {
		return nil
	}
	t := o.token
	return &t
}

func (o OwnerKey) String() string {
	switch o.kind {
	case OwnerUser:
		return fmt.Sprintf("user:%d", o.userID)
	case OwnerAnonymous:
		return "anon:" + o.token
	default:
		return "unknown"
	}
}
