package bot

// Command and component identifiers shared by the adapters.
const (
	CommandPublish = "publicar"
	OptionMessage  = "mensaje"
	OptionImage    = "imagen"
	ButtonLike     = "like"
	ButtonComment  = "comment"
	ModalComment   = "modal-comment"
	InputComment   = "comment-input"
)

const (
	LabelLike    = "Me gusta"
	EmojiLike    = "👍"
	LabelComment = "Comentar"
	EmojiComment = "💬"
)

// User-facing texts.
const (
	TextCardTitle      = "Nueva Publicación"
	TextCommentsField  = "Comentarios"
	TextNoComments     = "No hay comentarios."
	TextModalTitle     = "Agregar Comentario"
	TextCommentPrompt  = "Escribe tu comentario"
	TextCommentAdded   = "Comentario agregado."
	TextPostNotFound   = "No se encontró la publicación."
	TextEmptyComment   = "El comentario no puede estar vacío."
	TextCommentTooLong = "El comentario no puede superar los 90 caracteres."
	TextGenericError   = "Algo salió mal, inténtalo de nuevo."
	TextCommandHelp    = "Uso: /publicar <mensaje>"
	TextCommandDesc    = "Crea una nueva publicación"
	TextMessageDesc    = "Texto de la publicación"
	TextImageDesc      = "Imagen opcional"
)
