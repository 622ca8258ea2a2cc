package model

import "time"

type Post struct {
	ID          uint64    `gorm:"primaryKey;index:idx_post_pub_id,priority:2" json:"id"`
	Title       string    `gorm:"size:256;not null" json:"title"`
	Text        string    `gorm:"type:text;not null" json:"text"`
	PubDate     time.Time `gorm:"not null;index:idx_post_pub_id,priority:1" json:"pub_date"`
	AuthorID    uint64    `gorm:"not null;index" json:"author_id"`
	Author      User      `gorm:"constraint:OnDelete:CASCADE" json:"author"`
	LocationID  *uint64   `gorm:"index" json:"location_id"`
	Location    *Location `gorm:"constraint:OnDelete:SET NULL" json:"location"`
	CategoryID  *uint64   `gorm:"index" json:"category_id"`
	Category    *Category `gorm:"constraint:OnDelete:SET NULL" json:"category"`
	Image       string    `gorm:"size:255" json:"image"`
	IsPublished bool      `gorm:"not null" json:"is_published"`
	CreatedAt   time.Time `gorm:"<-:create" json:"created_at"`

	// 列表查询时由子查询填充，不落库
	CommentCount int64 `gorm:"->;-:migration" json:"comment_count"`
}

type Comment struct {
	ID          uint64    `gorm:"primaryKey" json:"id"`
	Text        string    `gorm:"type:text;not null" json:"text"`
	PostID      uint64    `gorm:"not null;index" json:"post_id"`
	Post        *Post     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	AuthorID    uint64    `gorm:"not null;index" json:"author_id"`
	Author      User      `gorm:"constraint:OnDelete:CASCADE" json:"author"`
	IsPublished bool      `gorm:"not null" json:"is_published"`
	CreatedAt   time.Time `gorm:"<-:create;index" json:"created_at"`
}
