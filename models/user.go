package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// MediaRef is a stored object reference returned by the media store.
type MediaRef struct {
	PublicID string `bson:"publicId,omitempty" json:"publicId,omitempty"`
	URL      string `bson:"url,omitempty" json:"url,omitempty"`
}

type SocialLinks struct {
	X         string `bson:"x,omitempty" json:"x,omitempty"`
	Facebook  string `bson:"facebook,omitempty" json:"facebook,omitempty"`
	Instagram string `bson:"instagram,omitempty" json:"instagram,omitempty"`
	Website   string `bson:"website,omitempty" json:"website,omitempty"`
}

type NotificationSettings struct {
	EmailNotifications   bool `bson:"emailNotifications" json:"emailNotifications"`
	SubscriptionActivity bool `bson:"subscriptionActivity" json:"subscriptionActivity"`
	CommentActivity      bool `bson:"commentActivity" json:"commentActivity"`
}

type WatchHistoryEntry struct {
	VideoID   bson.ObjectID `bson:"videoId" json:"videoId"`
	WatchedAt time.Time     `bson:"watchedAt" json:"watchedAt"`
}

type User struct {
	ID                 bson.ObjectID        `bson:"_id,omitempty" json:"id"`
	Username           string               `bson:"username" json:"username"`
	Email              string               `bson:"email" json:"email"`
	FullName           string               `bson:"fullName" json:"fullName"`
	PasswordHash       string               `bson:"passwordHash" json:"-"` // never expose
	Avatar             *MediaRef            `bson:"avatar,omitempty" json:"avatar,omitempty"`
	CoverImage         *MediaRef            `bson:"coverImage,omitempty" json:"coverImage,omitempty"`
	RefreshToken       string               `bson:"refreshToken,omitempty" json:"-"`
	WatchHistory       []WatchHistoryEntry  `bson:"watchHistory,omitempty" json:"watchHistory,omitempty"`
	IsVerified         bool                 `bson:"isVerified" json:"isVerified"`
	IsAdmin            bool                 `bson:"isAdmin" json:"isAdmin"`
	ChannelDescription string               `bson:"channelDescription,omitempty" json:"channelDescription,omitempty"`
	ChannelTags        []string             `bson:"channelTags,omitempty" json:"channelTags,omitempty"`
	SocialLinks        *SocialLinks         `bson:"socialLinks,omitempty" json:"socialLinks,omitempty"`
	Notifications      NotificationSettings `bson:"notificationSettings" json:"notificationSettings"`
	ResetTokenHash     string               `bson:"resetPasswordToken,omitempty" json:"-"`
	ResetTokenExpiry   *time.Time           `bson:"resetPasswordExpiry,omitempty" json:"-"`
	CreatedAt          time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time            `bson:"updatedAt" json:"updatedAt"`
}

func DefaultNotificationSettings() NotificationSettings {
	return NotificationSettings{
		EmailNotifications:   true,
		SubscriptionActivity: true,
		CommentActivity:      true,
	}
}
