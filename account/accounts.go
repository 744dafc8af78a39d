package account

import (
	"crypto/sha256"
	"encoding/hex"

	"converse/bizerror"
	"converse/idgen"
	"converse/persistence"
	"converse/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/sony/sonyflake"
)

var (
	userIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	CreateUserFunc  = CreateUser
	SearchUsersFunc = SearchUsers
)

func HashSha256(raw string) string {
	h := sha256.New()
	h.Write([]byte(raw))
	sum := h.Sum(nil)
	return hex.EncodeToString(sum)
}

func CreateUser(c *UserCreation, s *session.Session) (*UserInfo, error) {
	user := User{ID: idgen.NextID(userIdWorker), Name: c.Name, Secret: HashSha256(c.Secret), Nickname: c.Nickname}
	if err := persistence.ActiveDataSourceManager.GormDB(s.Context).Create(&user).Error; err != nil {
		return nil, err
	}
	return &UserInfo{ID: user.ID, Name: user.Name, Nickname: user.Nickname}, nil
}

// SearchUsers matches user names by case insensitive prefix, at most 40 results.
func SearchUsers(q UserQuery, s *session.Session) ([]UserInfo, error) {
	users := []UserInfo{}
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	query := db.Model(&User{})
	if q.Name != "" {
		query = query.Where("name LIKE ?", q.Name+"%")
	}
	if err := query.Limit(40).Scan(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func FindUser(id types.ID, tx *gorm.DB) (*User, error) {
	user := User{ID: id}
	if err := tx.Model(&User{}).Where(&user).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, bizerror.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func QueryAccountNames(ids []types.ID) (map[types.ID]string, error) {
	if len(ids) == 0 {
		return map[types.ID]string{}, nil
	}
	db := persistence.ActiveDataSourceManager.GormDB(nil)
	var records []User
	if err := db.Model(&User{}).Where("id IN (?)", ids).Find(&records).Error; err != nil {
		return nil, err
	}
	result := map[types.ID]string{}
	for _, r := range records {
		result[r.ID] = r.DisplayName()
	}
	return result, nil
}
