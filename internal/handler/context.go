package handler

type ContextKey string

var (
	RoleCtxKey           ContextKey = "role"
	SubCtxKey            ContextKey = "sub"
	MyInfoCtx            ContextKey = "myInfo"
	UserInfoCtx          ContextKey = "userInfo"
	ShiftTemplateCtx     ContextKey = "shiftTemplate"
	BuilderSessionCtx    ContextKey = "builderSession"
	PublishedScheduleCtx ContextKey = "publishedSchedule"
)
